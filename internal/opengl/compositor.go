package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/T-Dawg138/rg3d/math"
)

// Compositor resolves the HDR accumulation texture to the default
// framebuffer: bright-pass, separable Gaussian blur at half resolution,
// then exposure, Reinhard tone mapping and gamma in one composite draw.
type Compositor struct {
	Width  int32
	Height int32

	composite *Program
	bright    *Program
	blur      *Program

	quadVAO uint32

	bloomFBO [2]uint32
	bloomTex [2]uint32
	bloomW   int32
	bloomH   int32

	Exposure       float32
	BloomEnabled   bool
	BloomThreshold float32
	BloomStrength  float32
	BloomPasses    int
}

const compositeFragSrc = `
#version 410 core
in  vec2 fragUV;
out vec4 outColor;

uniform sampler2D hdrBuffer; // unit 0
uniform sampler2D bloomTex;  // unit 1
uniform float     exposure;
uniform float     bloomStrength;
uniform bool      hasBloom;

void main() {
    vec3 hdr = texture(hdrBuffer, fragUV).rgb;
    if (hasBloom) {
        hdr += texture(bloomTex, fragUV).rgb * bloomStrength;
    }
    vec3 v = max(hdr * exposure, vec3(0.0));
    vec3 mapped = v / (v + vec3(1.0));
    mapped = pow(mapped, vec3(1.0 / 2.2));
    outColor = vec4(mapped, 1.0);
}
`

// Bright pass. The surviving energy scales smoothly with how far the
// luminance sits above the threshold, so bloom fades in instead of popping.
const brightFragSrc = `
#version 410 core
in  vec2 fragUV;
out vec4 outColor;

uniform sampler2D hdrBuffer;
uniform float     threshold;

void main() {
    vec3  color = texture(hdrBuffer, fragUV).rgb;
    float luma  = dot(color, vec3(0.2126, 0.7152, 0.0722));
    float scale = luma > threshold ? (luma - threshold) / luma : 0.0;
    outColor = vec4(color * scale, 1.0);
}
`

// Single-axis 5-tap Gaussian. texelDir is (1/w, 0) or (0, 1/h).
const blurFragSrc = `
#version 410 core
in  vec2 fragUV;
out vec4 outColor;

uniform sampler2D blurTex;
uniform vec2      texelDir;

void main() {
    const float w[5] = float[](0.0625, 0.25, 0.375, 0.25, 0.0625);
    vec3 result = vec3(0.0);
    for (int i = -2; i <= 2; i++) {
        result += texture(blurTex, fragUV + float(i) * texelDir).rgb * w[i + 2];
    }
    outColor = vec4(result, 1.0);
}
`

func NewCompositor(width, height int) (*Compositor, error) {
	c := &Compositor{
		Exposure:       1.0,
		BloomThreshold: 1.0,
		BloomStrength:  0.6,
		BloomPasses:    4,
	}

	var err error
	if c.composite, err = NewProgram(fullscreenVertSrc, compositeFragSrc, nil,
		[]string{"hdrBuffer", "bloomTex", "exposure", "bloomStrength", "hasBloom"}); err != nil {
		return nil, fmt.Errorf("composite shader: %w", err)
	}
	c.composite.Use()
	c.composite.SetInt("hdrBuffer", 0)
	c.composite.SetInt("bloomTex", 1)

	if c.bright, err = NewProgram(fullscreenVertSrc, brightFragSrc, nil,
		[]string{"hdrBuffer", "threshold"}); err != nil {
		c.Destroy()
		return nil, fmt.Errorf("bright-pass shader: %w", err)
	}
	c.bright.Use()
	c.bright.SetInt("hdrBuffer", 0)

	if c.blur, err = NewProgram(fullscreenVertSrc, blurFragSrc, nil,
		[]string{"blurTex", "texelDir"}); err != nil {
		c.Destroy()
		return nil, fmt.Errorf("blur shader: %w", err)
	}
	c.blur.Use()
	c.blur.SetInt("blurTex", 0)

	gl.GenVertexArrays(1, &c.quadVAO)

	c.allocBloom(width, height)
	c.Width = int32(width)
	c.Height = int32(height)
	return c, nil
}

// Half resolution; a blurrier bloom at a quarter of the pixel cost.
func (c *Compositor) allocBloom(width, height int) {
	c.bloomW = int32(width) / 2
	if c.bloomW < 1 {
		c.bloomW = 1
	}
	c.bloomH = int32(height) / 2
	if c.bloomH < 1 {
		c.bloomH = 1
	}
	for i := 0; i < 2; i++ {
		gl.GenTextures(1, &c.bloomTex[i])
		gl.BindTexture(gl.TEXTURE_2D, c.bloomTex[i])
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA16F,
			c.bloomW, c.bloomH, 0, gl.RGBA, gl.HALF_FLOAT, nil)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		gl.BindTexture(gl.TEXTURE_2D, 0)

		gl.GenFramebuffers(1, &c.bloomFBO[i])
		gl.BindFramebuffer(gl.FRAMEBUFFER, c.bloomFBO[i])
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0,
			gl.TEXTURE_2D, c.bloomTex[i], 0)
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	}
}

func (c *Compositor) freeBloom() {
	for i := 0; i < 2; i++ {
		if c.bloomFBO[i] != 0 {
			gl.DeleteFramebuffers(1, &c.bloomFBO[i])
			c.bloomFBO[i] = 0
		}
		if c.bloomTex[i] != 0 {
			gl.DeleteTextures(1, &c.bloomTex[i])
			c.bloomTex[i] = 0
		}
	}
}

func (c *Compositor) Resize(width, height int) {
	c.Width = int32(width)
	c.Height = int32(height)
	c.freeBloom()
	c.allocBloom(width, height)
}

func (c *Compositor) Destroy() {
	c.freeBloom()
	for _, p := range []*Program{c.composite, c.bright, c.blur} {
		if p != nil {
			p.Destroy()
		}
	}
	if c.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &c.quadVAO)
		c.quadVAO = 0
	}
}

// Present tone-maps hdrTex into the default framebuffer, with the bloom
// chain in front when enabled.
func (c *Compositor) Present(hdrTex uint32) {
	gl.Disable(gl.DEPTH_TEST)
	gl.BindVertexArray(c.quadVAO)

	hasBloom := c.BloomEnabled && c.BloomPasses > 0
	if hasBloom {
		gl.BindFramebuffer(gl.FRAMEBUFFER, c.bloomFBO[0])
		gl.Viewport(0, 0, c.bloomW, c.bloomH)
		c.bright.Use()
		c.bright.SetFloat("threshold", c.BloomThreshold)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, hdrTex)
		gl.DrawArrays(gl.TRIANGLES, 0, 3)

		// Each H+V pair lands the result back in bloomTex[0].
		src, dst := 0, 1
		c.blur.Use()
		for i := 0; i < c.BloomPasses*2; i++ {
			gl.BindFramebuffer(gl.FRAMEBUFFER, c.bloomFBO[dst])
			if i%2 == 0 {
				c.blur.SetVec2("texelDir", math.NewVec2(1/float32(c.bloomW), 0))
			} else {
				c.blur.SetVec2("texelDir", math.NewVec2(0, 1/float32(c.bloomH)))
			}
			gl.BindTexture(gl.TEXTURE_2D, c.bloomTex[src])
			gl.DrawArrays(gl.TRIANGLES, 0, 3)
			src, dst = dst, src
		}
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, c.Width, c.Height)
	c.composite.Use()
	c.composite.SetFloat("exposure", c.Exposure)
	c.composite.SetFloat("bloomStrength", c.BloomStrength)
	if hasBloom {
		c.composite.SetInt("hasBloom", 1)
	} else {
		c.composite.SetInt("hasBloom", 0)
	}
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, hdrTex)
	if hasBloom {
		gl.ActiveTexture(gl.TEXTURE1)
		gl.BindTexture(gl.TEXTURE_2D, c.bloomTex[0])
	}
	gl.DrawArrays(gl.TRIANGLES, 0, 3)

	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)
}
