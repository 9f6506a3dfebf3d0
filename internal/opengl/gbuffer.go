package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/T-Dawg138/rg3d/core"
	"github.com/T-Dawg138/rg3d/math"
	"github.com/T-Dawg138/rg3d/scene"
)

// GBuffer is the geometry-pass render target: three RGBA8 color attachments
// plus a sampleable depth texture.
//
//	0 gColor   rgb = albedo * tint, a forced to 1
//	1 gNormal  rgb = world normal * 0.5 + 0.5, a = specular intensity
//	2 gAmbient rgb = lightmap radiance sampled with the secondary UV
type GBuffer struct {
	FBO        uint32
	ColorTex   uint32
	NormalTex  uint32
	AmbientTex uint32
	DepthTex   uint32
	Width      int32
	Height     int32
}

const gbufferVertSrc = `
#version 410 core
layout(location = 0) in vec3 inPosition;
layout(location = 1) in vec3 inNormal;
layout(location = 2) in vec2 inUV;
layout(location = 3) in vec2 inUV2;
layout(location = 4) in vec4 inColor;
layout(location = 5) in vec3 inTangent;
layout(location = 6) in vec3 inBitangent;

uniform mat4 mvp;
uniform mat4 model;

out vec2 fragUV;
out vec2 fragUV2;
out vec4 fragColor;
out vec3 fragNormal;
out vec3 fragTangent;
out vec3 fragBitangent;
out vec3 fragWorldPos;

void main() {
    mat3 normalMat = mat3(model);
    vec4 worldPos  = model * vec4(inPosition, 1.0);

    gl_Position   = mvp * vec4(inPosition, 1.0);
    fragUV        = inUV;
    fragUV2       = inUV2;
    fragColor     = inColor;
    fragNormal    = normalMat * inNormal;
    fragTangent   = normalMat * inTangent;
    fragBitangent = normalMat * inBitangent;
    fragWorldPos  = worldPos.xyz;
}
`

// Fragment order is fixed: parallax UV adjust, cutoff test, alpha force,
// normal transform and encode, reflection blend into the color output. A
// discarded fragment writes nothing, depth included.
const gbufferFragSrc = `
#version 410 core
in vec2 fragUV;
in vec2 fragUV2;
in vec4 fragColor;
in vec3 fragNormal;
in vec3 fragTangent;
in vec3 fragBitangent;
in vec3 fragWorldPos;

layout(location = 0) out vec4 gColor;
layout(location = 1) out vec4 gNormal;
layout(location = 2) out vec4 gAmbient;

uniform sampler2D diffuseTex;   // unit 0
uniform sampler2D normalTex;    // unit 1
uniform sampler2D specularTex;  // unit 2
uniform sampler2D lightmapTex;  // unit 3
uniform samplerCube envMap;     // unit 5
uniform sampler2D roughnessTex; // unit 6
uniform vec4  tint;
uniform vec3  cameraPos;
uniform float roughnessScale;

#ifdef PARALLAX
uniform sampler2D heightTex;   // unit 4
uniform float parallaxScale;
uniform float parallaxMinSteps;
uniform float parallaxMaxSteps;

vec2 parallaxUV(vec2 uv, vec3 viewTS) {
    if (viewTS.z <= 0.0) return uv;
    vec3 v = normalize(viewTS);

    float steps = mix(parallaxMaxSteps, parallaxMinSteps, clamp(v.z, 0.0, 1.0));
    float n = max(floor(steps), 1.0);

    float layerDepth = 1.0 / n;
    vec2  deltaUV    = v.xy * parallaxScale / v.z / n;

    vec2  cur      = uv;
    float curDepth = 0.0;
    float h        = 1.0 - texture(heightTex, cur).r;
    for (int i = 0; i < 64; i++) {
        if (float(i) >= n || curDepth >= h) break;
        cur      -= deltaUV;
        curDepth += layerDepth;
        h         = 1.0 - texture(heightTex, cur).r;
    }

    vec2  prev   = cur + deltaUV;
    float after  = h - curDepth;
    float before = (1.0 - texture(heightTex, prev).r) - (curDepth - layerDepth);
    float denom  = after - before;
    if (denom == 0.0) return cur;
    return mix(cur, prev, after / denom);
}
#endif

void main() {
    vec3 T = normalize(fragTangent);
    vec3 B = normalize(fragBitangent);
    vec3 N = normalize(fragNormal);
    mat3 tbn = mat3(T, B, N);

    vec2 uv = fragUV;
#ifdef PARALLAX
    uv = parallaxUV(uv, transpose(tbn) * (cameraPos - fragWorldPos));
#endif

    vec4 diffuse = texture(diffuseTex, uv) * tint * fragColor;
    if (diffuse.a < 0.5) discard;

    vec3 worldN = normalize(tbn * (texture(normalTex, uv).rgb * 2.0 - 1.0));

    vec3  V     = normalize(fragWorldPos - cameraPos);
    vec3  env   = texture(envMap, reflect(V, worldN)).rgb;
    float rough = clamp(texture(roughnessTex, uv).r * roughnessScale, 0.0, 1.0);

    gColor   = vec4(mix(diffuse.rgb, env, rough), 1.0);
    gNormal  = vec4(worldN * 0.5 + 0.5, texture(specularTex, uv).r);
    gAmbient = vec4(texture(lightmapTex, fragUV2).rgb, 1.0);
}
`

// Stand-in fragment stage for materials whose real program failed to
// compile: an unmistakable flat magenta with the facing normal, so the
// frame keeps rendering.
const gbufferStubFragSrc = `
#version 410 core
in vec3 fragNormal;

layout(location = 0) out vec4 gColor;
layout(location = 1) out vec4 gNormal;
layout(location = 2) out vec4 gAmbient;

void main() {
    gColor   = vec4(1.0, 0.0, 1.0, 1.0);
    gNormal  = vec4(normalize(fragNormal) * 0.5 + 0.5, 0.0);
    gAmbient = vec4(0.0, 0.0, 0.0, 1.0);
}
`

var gbufferUniforms = []string{
	"mvp", "model", "tint",
	"diffuseTex", "normalTex", "specularTex", "lightmapTex",
	"heightTex", "envMap", "roughnessTex",
	"cameraPos", "roughnessScale",
	"parallaxScale", "parallaxMinSteps", "parallaxMaxSteps",
}

// GeometryPrograms holds the statically known geometry-pass permutations.
// A permutation that failed to compile is substituted so its draws render
// with the stub instead of aborting the pipeline.
type GeometryPrograms struct {
	Plain    *Program
	Parallax *Program

	stub *Program
}

func NewGeometryPrograms() (*GeometryPrograms, error) {
	stub, err := NewProgram(gbufferVertSrc, gbufferStubFragSrc, nil, []string{"mvp", "model"})
	if err != nil {
		return nil, fmt.Errorf("geometry stub shader: %w", err)
	}

	plain, err := NewProgram(gbufferVertSrc, gbufferFragSrc, nil, gbufferUniforms)
	if err != nil {
		core.Logger().Warn("geometry shader failed, draws use the stub", "err", err)
		plain = stub
	}
	pom, err := NewProgram(gbufferVertSrc, gbufferFragSrc, []string{"PARALLAX"}, gbufferUniforms)
	if err != nil {
		core.Logger().Warn("geometry parallax shader failed, parallax draws fall back", "err", err)
		pom = plain
	}

	for _, p := range []*Program{plain, pom} {
		if p == stub {
			continue
		}
		p.Use()
		p.SetInt("diffuseTex", 0)
		p.SetInt("normalTex", 1)
		p.SetInt("specularTex", 2)
		p.SetInt("lightmapTex", 3)
		p.SetInt("heightTex", 4)
		p.SetInt("envMap", 5)
		p.SetInt("roughnessTex", 6)
	}
	return &GeometryPrograms{Plain: plain, Parallax: pom, stub: stub}, nil
}

// Pick returns the permutation for a material.
func (g *GeometryPrograms) Pick(mat *scene.Material) *Program {
	if mat.ParallaxEnabled {
		return g.Parallax
	}
	return g.Plain
}

func (g *GeometryPrograms) Destroy() {
	seen := make(map[*Program]bool)
	for _, p := range []*Program{g.Plain, g.Parallax, g.stub} {
		if p != nil && !seen[p] {
			seen[p] = true
			p.Destroy()
		}
	}
}

func NewGBuffer(width, height int) (*GBuffer, error) {
	gb := &GBuffer{}
	if err := gb.alloc(width, height); err != nil {
		return nil, err
	}
	return gb, nil
}

func (gb *GBuffer) alloc(width, height int) error {
	gb.Width = int32(width)
	gb.Height = int32(height)

	colorTex := func() uint32 {
		var id uint32
		gl.GenTextures(1, &id)
		gl.BindTexture(gl.TEXTURE_2D, id)
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8,
			gb.Width, gb.Height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		return id
	}
	gb.ColorTex = colorTex()
	gb.NormalTex = colorTex()
	gb.AmbientTex = colorTex()

	gl.GenTextures(1, &gb.DepthTex)
	gl.BindTexture(gl.TEXTURE_2D, gb.DepthTex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT32F,
		gb.Width, gb.Height, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenFramebuffers(1, &gb.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, gb.FBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, gb.ColorTex, 0)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT1, gl.TEXTURE_2D, gb.NormalTex, 0)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT2, gl.TEXTURE_2D, gb.AmbientTex, 0)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, gb.DepthTex, 0)

	bufs := [3]uint32{gl.COLOR_ATTACHMENT0, gl.COLOR_ATTACHMENT1, gl.COLOR_ATTACHMENT2}
	gl.DrawBuffers(3, &bufs[0])

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		gb.free()
		return fmt.Errorf("gbuffer FBO incomplete: status=0x%X", status)
	}
	return nil
}

func (gb *GBuffer) free() {
	if gb.FBO != 0 {
		gl.DeleteFramebuffers(1, &gb.FBO)
		gb.FBO = 0
	}
	for _, id := range []*uint32{&gb.ColorTex, &gb.NormalTex, &gb.AmbientTex, &gb.DepthTex} {
		if *id != 0 {
			gl.DeleteTextures(1, id)
			*id = 0
		}
	}
}

// Resize drops and recreates every attachment at the new dimensions.
func (gb *GBuffer) Resize(width, height int) error {
	gb.free()
	return gb.alloc(width, height)
}

func (gb *GBuffer) Destroy() {
	gb.free()
}

// Begin binds the G-buffer and clears all attachments. The normal target is
// cleared to the encoding of +Z so empty texels still decode to a valid unit
// vector; the others clear to zero.
func (gb *GBuffer) Begin() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, gb.FBO)
	gl.Viewport(0, 0, gb.Width, gb.Height)

	zero := [4]float32{0, 0, 0, 0}
	up := [4]float32{0.5, 0.5, 1, 0}
	one := float32(1)
	gl.ClearBufferfv(gl.COLOR, 0, &zero[0])
	gl.ClearBufferfv(gl.COLOR, 1, &up[0])
	gl.ClearBufferfv(gl.COLOR, 2, &zero[0])
	gl.ClearBufferfv(gl.DEPTH, 0, &one)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.DepthMask(true)
	gl.Disable(gl.BLEND)
}

// ParallaxSettings are the height-field march parameters shared by every
// parallax draw in a frame.
type ParallaxSettings struct {
	Scale    float32
	MinSteps int
	MaxSteps int
}

// DrawMesh binds the material's variant program, resolves its texture slots
// through the cache and issues the draw.
func (gb *GBuffer) DrawMesh(progs *GeometryPrograms, store *MeshStore, cache *TextureCache,
	mesh *scene.Mesh, tint core.Color, mvp, model math.Mat4, camPos math.Vec3, px ParallaxSettings) {

	gpu := store.Ensure(mesh)
	if gpu == nil {
		return
	}
	mat := mesh.EffectiveMaterial()

	prog := progs.Pick(mat)
	prog.Use()
	prog.SetMat4("mvp", mvp)
	prog.SetMat4("model", model)
	prog.SetColor("tint", mat.Tint.Mul(tint))
	prog.SetVec3("cameraPos", camPos)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, cache.Resolve(mat.Diffuse, cache.White))
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, cache.Resolve(mat.Normal, cache.FlatNormal))
	gl.ActiveTexture(gl.TEXTURE2)
	gl.BindTexture(gl.TEXTURE_2D, cache.Resolve(mat.Specular, cache.White))
	gl.ActiveTexture(gl.TEXTURE3)
	gl.BindTexture(gl.TEXTURE_2D, cache.Resolve(mat.Lightmap, cache.Black))

	// An unbound roughness slot carries the scalar through a white texel; a
	// bound map that has not loaded yet reads as zero, so nothing reflects
	// before the real data arrives. Without an environment cube the blend
	// is forced off so the black fallback cube cannot darken the albedo.
	roughTex := cache.White
	roughScale := mat.Roughness
	switch {
	case mat.Environment == nil:
		roughScale = 0
	case mat.RoughnessMap != nil:
		roughTex = cache.Resolve(mat.RoughnessMap, cache.Black)
		roughScale = 1
	}
	gl.ActiveTexture(gl.TEXTURE6)
	gl.BindTexture(gl.TEXTURE_2D, roughTex)
	prog.SetFloat("roughnessScale", roughScale)

	gl.ActiveTexture(gl.TEXTURE5)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, cache.ResolveCube(mat.Environment, cache.BlackCube))

	if mat.ParallaxEnabled {
		gl.ActiveTexture(gl.TEXTURE4)
		gl.BindTexture(gl.TEXTURE_2D, cache.Resolve(mat.Height, cache.FullHeight))
		prog.SetFloat("parallaxScale", px.Scale)
		prog.SetFloat("parallaxMinSteps", float32(px.MinSteps))
		prog.SetFloat("parallaxMaxSteps", float32(px.MaxSteps))
	}

	store.Draw(gpu)
}
