package opengl

import (
	"fmt"
	"strings"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"github.com/T-Dawg138/rg3d/core"
	"github.com/T-Dawg138/rg3d/math"
)

// Program wraps a linked shader pair together with its uniform locations.
// Every location is resolved once at link time and frozen; draw code never
// calls GetUniformLocation.
type Program struct {
	ID       uint32
	uniforms map[string]int32
}

// NewProgram compiles and links a vertex/fragment pair. defines are injected
// as "#define NAME" lines directly after the #version directive, which is
// how variants of one source (parallax on or off) become distinct programs.
// uniforms lists every uniform name the caller will set; unknown or
// optimized-out names resolve to -1 and setting them is a no-op.
func NewProgram(vertSrc, fragSrc string, defines []string, uniforms []string) (*Program, error) {
	vs := injectDefines(vertSrc, defines)
	fs := injectDefines(fragSrc, defines)

	vert, err := compileShader(vs+"\x00", gl.VERTEX_SHADER)
	if err != nil {
		return nil, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fs+"\x00", gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return nil, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteShader(vert)
		gl.DeleteShader(frag)
		gl.DeleteProgram(prog)
		return nil, fmt.Errorf("link failed: %v", log)
	}

	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	p := &Program{ID: prog, uniforms: make(map[string]int32, len(uniforms))}
	for _, name := range uniforms {
		p.uniforms[name] = gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
	}
	return p, nil
}

func injectDefines(src string, defines []string) string {
	if len(defines) == 0 {
		return src
	}
	var b strings.Builder
	for _, d := range defines {
		b.WriteString("#define ")
		b.WriteString(d)
		b.WriteByte('\n')
	}
	idx := strings.Index(src, "\n")
	if idx < 0 || !strings.HasPrefix(strings.TrimSpace(src), "#version") {
		return b.String() + src
	}
	return src[:idx+1] + b.String() + src[idx+1:]
}

func (p *Program) Use() {
	gl.UseProgram(p.ID)
}

func (p *Program) Destroy() {
	if p.ID != 0 {
		gl.DeleteProgram(p.ID)
		p.ID = 0
	}
}

func (p *Program) loc(name string) int32 {
	if l, ok := p.uniforms[name]; ok {
		return l
	}
	return -1
}

func (p *Program) SetMat4(name string, m math.Mat4) {
	gl.UniformMatrix4fv(p.loc(name), 1, false, (*float32)(unsafe.Pointer(&m[0][0])))
}

func (p *Program) SetVec3(name string, v math.Vec3) {
	gl.Uniform3f(p.loc(name), v.X, v.Y, v.Z)
}

func (p *Program) SetVec2(name string, v math.Vec2) {
	gl.Uniform2f(p.loc(name), v.X, v.Y)
}

func (p *Program) SetColor(name string, c core.Color) {
	gl.Uniform4f(p.loc(name), c.R, c.G, c.B, c.A)
}

func (p *Program) SetRGB(name string, c core.Color) {
	gl.Uniform3f(p.loc(name), c.R, c.G, c.B)
}

func (p *Program) SetFloat(name string, v float32) {
	gl.Uniform1f(p.loc(name), v)
}

func (p *Program) SetInt(name string, v int32) {
	gl.Uniform1i(p.loc(name), v)
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile failed: %v", log)
	}
	return shader, nil
}
