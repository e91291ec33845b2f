/*
NAME
  glsink.go

DESCRIPTION
  glsink.go implements device.TextureSink and device.Snapshotter over a
  desktop OpenGL window via github.com/go-gl/gl and github.com/go-gl/
  glfw/v3.3/glfw. The v4.1-core profile has no fixed-function
  immediate-mode drawing, so frames are blitted through a textured quad
  and a minimal shader pair. Decoding the target console's VQ-paletted
  codebooks or planar YUV420 macroblocks into true color belongs to the
  console's GPU, not this sink: it renders a luminance preview of
  whatever bytes it is handed so a developer can visually confirm
  playback timing and frame delivery without target hardware.

AUTHOR
  Mara Lindqvist <mara@dcmv.dev>

LICENSE
  Copyright (C) 2026 the DCMV Project Contributors. See LICENSE.
*/

// Package glsink is a desktop reference device.TextureSink backed by
// OpenGL, for visually confirming playback timing during development.
package glsink

import (
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/dreamcast-fmv/dcmv/container/dcmv"
	"github.com/dreamcast-fmv/dcmv/device"
)

func init() {
	// GLFW and the GL context it creates must live on one OS thread for
	// the lifetime of the window.
	runtime.LockOSThread()
}

var quadVertices = []float32{
	-1, -1, 0, 0,
	1, -1, 1, 0,
	-1, 1, 0, 1,
	1, 1, 1, 1,
}

const vertexShaderSource = `#version 410
layout(location = 0) in vec2 pos;
layout(location = 1) in vec2 uv;
out vec2 vUV;
void main() {
	vUV = uv;
	gl_Position = vec4(pos, 0, 1);
}
` + "\x00"

const fragmentShaderSource = `#version 410
in vec2 vUV;
out vec4 fragColor;
uniform sampler2D tex;
void main() {
	float y = texture(tex, vUV).r;
	fragColor = vec4(y, y, y, 1);
}
` + "\x00"

// Sink is a device.TextureSink that displays frames in a desktop window.
type Sink struct {
	mu      sync.Mutex
	window  *glfw.Window
	tex     uint32
	program uint32
	vao     uint32
	width   int
	height  int
}

// New opens a window of the given dimensions and readies an OpenGL
// texture sized to match; one texture suffices per container, since
// width/height are fixed for its whole life.
func New(width, height int, title string) (*Sink, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glsink: glfw.Init: %w", err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glsink: CreateWindow: %w", err)
	}
	win.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glsink: gl.Init: %w", err)
	}

	program, err := newProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("glsink: %w", err)
	}

	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4, gl.Ptr(quadVertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 4*4, gl.PtrOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 4*4, gl.PtrOffset(2*4))
	gl.BindVertexArray(0)

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	return &Sink{window: win, tex: tex, program: program, vao: vao, width: width, height: height}, nil
}

// ShouldClose reports whether the user closed the window, the closest
// desktop equivalent of the target host's EXIT control.
func (s *Sink) ShouldClose() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window.ShouldClose()
}

// Window returns the underlying *glfw.Window so a caller can attach its
// own input callbacks.
func (s *Sink) Window() *glfw.Window {
	return s.window
}

// Load uploads frameBuffer as an 8-bit luminance preview and swaps it
// onto the screen. Planar-macroblock frames use their leading Y plane
// bytes directly; VQ-paletted frames are previewed as raw index values,
// which is not color-correct but is enough to see frames changing.
func (s *Sink) Load(frameBuffer []byte, frameType dcmv.FrameType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := s.width * s.height
	if len(frameBuffer) < n {
		return fmt.Errorf("glsink: frame buffer is %d bytes, want at least %d for an %dx%d preview", len(frameBuffer), n, s.width, s.height)
	}
	plane := frameBuffer[:n]

	gl.BindTexture(gl.TEXTURE_2D, s.tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RED, int32(s.width), int32(s.height), 0, gl.RED, gl.UNSIGNED_BYTE, gl.Ptr(plane))

	gl.Viewport(0, 0, int32(s.width), int32(s.height))
	gl.Clear(gl.COLOR_BUFFER_BIT)

	gl.UseProgram(s.program)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, s.tex)
	gl.Uniform1i(gl.GetUniformLocation(s.program, gl.Str("tex\x00")), 0)
	gl.BindVertexArray(s.vao)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)

	s.window.SwapBuffers()
	glfw.PollEvents()
	return nil
}

// Snapshot reads back the window's current color buffer as RGB. Since
// Load only ever wrote a luminance plane, every channel in the returned
// RGB is equal.
func (s *Sink) Snapshot() (width, height int, rgb []byte, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, s.width*s.height*3)
	gl.ReadPixels(0, 0, int32(s.width), int32(s.height), gl.RGB, gl.UNSIGNED_BYTE, gl.Ptr(buf))
	return s.width, s.height, buf, nil
}

// Close releases the GL texture, program and window.
func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	gl.DeleteTextures(1, &s.tex)
	gl.DeleteProgram(s.program)
	s.window.Destroy()
	glfw.Terminate()
}

// newProgram links a vertex+fragment shader pair into a GL program.
func newProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vs, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		return 0, fmt.Errorf("link program: %v", log)
	}

	gl.DeleteShader(vs)
	gl.DeleteShader(fs)
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logText := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logText))
		return 0, fmt.Errorf("compile shader: %v", logText)
	}
	return shader, nil
}

var (
	_ device.TextureSink = (*Sink)(nil)
	_ device.Snapshotter = (*Sink)(nil)
)
