package graphics

// Surface is a window with a current OpenGL context.
type Surface interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	Close()
	SwapBuffers()
	FramebufferSize() (int, int)
	// Time is seconds since the windowing system was initialized.
	Time() float64
}
