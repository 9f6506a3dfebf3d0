package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/chewxy/math32"

	"github.com/T-Dawg138/rg3d/core"
	"github.com/T-Dawg138/rg3d/math"
	"github.com/T-Dawg138/rg3d/scene"
)

// LightBuffer is the HDR accumulation target of the lighting stage. Light
// contributions are summed into an RGBA16F attachment with additive
// blending; the ambient resolve runs exactly once per frame before them.
// The FBO has no depth attachment; fullscreen passes sample the G-buffer
// depth as a texture.
type LightBuffer struct {
	FBO      uint32
	ColorTex uint32
	Width    int32
	Height   int32

	quadVAO uint32

	ambient   *Program
	dir       *Program
	dirShadow *Program
	point     *Program
	spot      *Program
	fallback  *Program
}

const fullscreenVertSrc = `
#version 410 core
out vec2 fragUV;
void main() {
    const vec2 pos[3] = vec2[3](
        vec2(-1.0, -1.0),
        vec2( 3.0, -1.0),
        vec2(-1.0,  3.0)
    );
    gl_Position = vec4(pos[gl_VertexID], 0.0, 1.0);
    fragUV      = pos[gl_VertexID] * 0.5 + 0.5;
}
`

// Ambient resolve: baked radiance times albedo, independent of the light
// list.
const ambientFragSrc = `
#version 410 core
in  vec2 fragUV;
out vec4 outColor;

uniform sampler2D gColorTex;   // unit 0
uniform sampler2D gAmbientTex; // unit 1
uniform vec3 ambientScale;

void main() {
    vec3 albedo  = texture(gColorTex, fragUV).rgb;
    vec3 ambient = texture(gAmbientTex, fragUV).rgb;
    outColor = vec4(ambient * albedo * ambientScale, 1.0);
}
`

// One light contribution. The light type is a compile-time permutation:
// LIGHT_DIRECTIONAL, LIGHT_POINT or LIGHT_SPOT, plus SHADOW_MAP for the
// shadowed directional variant.
const lightFragSrc = `
#version 410 core
in  vec2 fragUV;
out vec4 outColor;

uniform sampler2D gColorTex;  // unit 0
uniform sampler2D gNormalTex; // unit 1
uniform sampler2D depthTex;   // unit 2

uniform mat4  invViewProj;
uniform vec3  cameraPos;
uniform vec3  lightColor;
uniform float lightIntensity;

#ifdef LIGHT_DIRECTIONAL
uniform vec3 lightDir;
#else
uniform vec3  lightPos;
uniform float lightRadius;
#endif

#ifdef LIGHT_SPOT
uniform vec3  lightDir;
uniform float cosInner;
uniform float cosOuter;
#endif

#ifdef SHADOW_MAP
uniform sampler2DShadow shadowMap; // unit 3
uniform mat4  lightViewProj;
uniform float shadowTexel;

float calcShadow(vec3 P) {
    vec4 lp = lightViewProj * vec4(P, 1.0);
    vec3 p  = lp.xyz / lp.w;
    p = p * 0.5 + 0.5;
    if (p.z > 1.0) return 1.0;
    float shadow = 0.0;
    for (int x = -1; x <= 1; x++) {
        for (int y = -1; y <= 1; y++) {
            shadow += texture(shadowMap, vec3(p.xy + vec2(float(x), float(y)) * shadowTexel, p.z - 0.002));
        }
    }
    return shadow / 9.0;
}
#endif

const float SHININESS = 80.0;

void main() {
    float depth = texture(depthTex, fragUV).r;
    if (depth >= 1.0) discard; // background texel

    vec4 ndc = vec4(fragUV * 2.0 - 1.0, depth * 2.0 - 1.0, 1.0);
    vec4 wp  = invViewProj * ndc;
    vec3 P   = wp.xyz / wp.w;

    vec4 gn    = texture(gNormalTex, fragUV);
    vec3 N     = normalize(gn.rgb * 2.0 - 1.0);
    float specI = gn.a;
    vec3 albedo = texture(gColorTex, fragUV).rgb;

    vec3  L;
    float atten = 1.0;
#ifdef LIGHT_DIRECTIONAL
    L = normalize(-lightDir);
#else
    vec3  toLight = lightPos - P;
    float dist    = length(toLight);
    if (dist >= lightRadius) discard;
    L = toLight / max(dist, 0.0001);
    float f = 1.0 - dist / lightRadius;
    atten = f * f;
#endif
#ifdef LIGHT_SPOT
    float cosAngle = dot(-L, normalize(lightDir));
    atten *= clamp((cosAngle - cosOuter) / max(cosInner - cosOuter, 0.0001), 0.0, 1.0);
#endif

    float ndl = max(dot(N, L), 0.0);
    if (ndl * atten <= 0.0) discard;

    vec3  V    = normalize(cameraPos - P);
    vec3  H    = normalize(L + V);
    float spec = pow(max(dot(N, H), 0.0), SHININESS) * specI;

    float shadow = 1.0;
#ifdef SHADOW_MAP
    shadow = calcShadow(P);
#endif

    vec3 c = (albedo * ndl + vec3(spec)) * lightColor * lightIntensity * atten * shadow;
    outColor = vec4(c, 1.0);
}
`

// Unlit stand-in for a light variant whose permutation failed to compile:
// albedo times the light color, no falloff, no specular. Wrong but visible.
const lightFallbackFragSrc = `
#version 410 core
in  vec2 fragUV;
out vec4 outColor;

uniform sampler2D gColorTex; // unit 0
uniform sampler2D depthTex;  // unit 2

uniform vec3  lightColor;
uniform float lightIntensity;

void main() {
    float depth = texture(depthTex, fragUV).r;
    if (depth >= 1.0) discard;
    vec3 albedo = texture(gColorTex, fragUV).rgb;
    outColor = vec4(albedo * lightColor * lightIntensity, 1.0);
}
`

var lightUniforms = []string{
	"gColorTex", "gNormalTex", "depthTex",
	"invViewProj", "cameraPos", "lightColor", "lightIntensity",
	"lightDir", "lightPos", "lightRadius", "cosInner", "cosOuter",
	"shadowMap", "lightViewProj", "shadowTexel",
}

func NewLightBuffer(width, height int) (*LightBuffer, error) {
	lb := &LightBuffer{}

	var err error
	if lb.ambient, err = NewProgram(fullscreenVertSrc, ambientFragSrc, nil,
		[]string{"gColorTex", "gAmbientTex", "ambientScale"}); err != nil {
		return nil, fmt.Errorf("ambient shader: %w", err)
	}
	lb.ambient.Use()
	lb.ambient.SetInt("gColorTex", 0)
	lb.ambient.SetInt("gAmbientTex", 1)

	// The fallback substitutes for any light permutation that fails to
	// compile; only the fallback itself failing is fatal.
	if lb.fallback, err = NewProgram(fullscreenVertSrc, lightFallbackFragSrc, nil,
		lightUniforms); err != nil {
		lb.Destroy()
		return nil, fmt.Errorf("light fallback shader: %w", err)
	}

	variants := []struct {
		dst     **Program
		defines []string
	}{
		{&lb.dir, []string{"LIGHT_DIRECTIONAL"}},
		{&lb.dirShadow, []string{"LIGHT_DIRECTIONAL", "SHADOW_MAP"}},
		{&lb.point, []string{"LIGHT_POINT"}},
		{&lb.spot, []string{"LIGHT_SPOT"}},
	}
	for _, v := range variants {
		p, err := NewProgram(fullscreenVertSrc, lightFragSrc, v.defines, lightUniforms)
		if err != nil {
			core.Logger().Warn("light shader failed, variant draws unlit",
				"defines", v.defines, "err", err)
			p = lb.fallback
		}
		p.Use()
		p.SetInt("gColorTex", 0)
		p.SetInt("gNormalTex", 1)
		p.SetInt("depthTex", 2)
		p.SetInt("shadowMap", 3)
		*v.dst = p
	}

	gl.GenVertexArrays(1, &lb.quadVAO)

	if err := lb.alloc(width, height); err != nil {
		lb.Destroy()
		return nil, err
	}
	return lb, nil
}

func (lb *LightBuffer) alloc(width, height int) error {
	lb.Width = int32(width)
	lb.Height = int32(height)

	gl.GenTextures(1, &lb.ColorTex)
	gl.BindTexture(gl.TEXTURE_2D, lb.ColorTex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA16F,
		lb.Width, lb.Height, 0, gl.RGBA, gl.HALF_FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenFramebuffers(1, &lb.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, lb.FBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, lb.ColorTex, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("light FBO incomplete: status=0x%X", status)
	}
	return nil
}

func (lb *LightBuffer) freeFBO() {
	if lb.FBO != 0 {
		gl.DeleteFramebuffers(1, &lb.FBO)
		lb.FBO = 0
	}
	if lb.ColorTex != 0 {
		gl.DeleteTextures(1, &lb.ColorTex)
		lb.ColorTex = 0
	}
}

// Resize recreates the accumulation target.
func (lb *LightBuffer) Resize(width, height int) error {
	lb.freeFBO()
	return lb.alloc(width, height)
}

func (lb *LightBuffer) Destroy() {
	lb.freeFBO()
	seen := make(map[*Program]bool)
	for _, p := range []*Program{lb.ambient, lb.dir, lb.dirShadow, lb.point, lb.spot, lb.fallback} {
		if p != nil && !seen[p] {
			seen[p] = true
			p.Destroy()
		}
	}
	if lb.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &lb.quadVAO)
		lb.quadVAO = 0
	}
}

// FrameParams carries the per-frame values shared by every lighting draw.
type FrameParams struct {
	InvViewProj math.Mat4
	CameraPos   math.Vec3
}

// Begin binds the accumulation buffer, clears it to black and sets up
// additive blending. Every subsequent pass adds energy.
func (lb *LightBuffer) Begin(gb *GBuffer) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, lb.FBO)
	gl.Viewport(0, 0, lb.Width, lb.Height)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE)

	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, gb.ColorTex)
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, gb.NormalTex)
	gl.ActiveTexture(gl.TEXTURE2)
	gl.BindTexture(gl.TEXTURE_2D, gb.DepthTex)
}

// ResolveAmbient draws the lightmap term. Runs once per frame, regardless
// of how many lights follow; a frame with zero lights still gets it.
func (lb *LightBuffer) ResolveAmbient(gb *GBuffer, ambient core.Color) {
	lb.ambient.Use()
	lb.ambient.SetRGB("ambientScale", ambient)

	// Ambient samples gAmbientTex on unit 1 where the lights expect the
	// normal target; rebind for this one draw.
	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, gb.AmbientTex)

	gl.BindVertexArray(lb.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)

	gl.ActiveTexture(gl.TEXTURE1)
	gl.BindTexture(gl.TEXTURE_2D, gb.NormalTex)
}

// DrawLight accumulates one light with a fullscreen draw. shadow is the
// populated shadow map for a shadow-casting directional light, or nil.
func (lb *LightBuffer) DrawLight(l *scene.Light, fp FrameParams, shadow *ShadowMap, lightVP math.Mat4) {
	var p *Program
	switch l.Type {
	case scene.LightDirectional:
		if shadow != nil && l.CastShadows {
			p = lb.dirShadow
		} else {
			p = lb.dir
		}
	case scene.LightPoint:
		p = lb.point
	case scene.LightSpot:
		p = lb.spot
	default:
		return
	}

	p.Use()
	p.SetMat4("invViewProj", fp.InvViewProj)
	p.SetVec3("cameraPos", fp.CameraPos)
	p.SetRGB("lightColor", l.Color)
	p.SetFloat("lightIntensity", l.Intensity)

	switch l.Type {
	case scene.LightDirectional:
		p.SetVec3("lightDir", l.Direction.Normalize())
		if p == lb.dirShadow {
			gl.ActiveTexture(gl.TEXTURE3)
			gl.BindTexture(gl.TEXTURE_2D, shadow.DepthTex)
			p.SetMat4("lightViewProj", lightVP)
			p.SetFloat("shadowTexel", 1/float32(shadow.Size))
		}
	case scene.LightPoint:
		p.SetVec3("lightPos", l.Position)
		p.SetFloat("lightRadius", l.Radius)
	case scene.LightSpot:
		p.SetVec3("lightPos", l.Position)
		p.SetFloat("lightRadius", l.Radius)
		p.SetVec3("lightDir", l.Direction.Normalize())
		p.SetFloat("cosInner", math32.Cos(l.InnerAngle))
		p.SetFloat("cosOuter", math32.Cos(l.OuterAngle))
	}

	gl.BindVertexArray(lb.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
}

// End restores default state after the lighting stage.
func (lb *LightBuffer) End() {
	gl.Disable(gl.BLEND)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}
