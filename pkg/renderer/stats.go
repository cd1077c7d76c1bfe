package renderer

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int     // Total number of pixels rendered
	Frames          int     // Number of frames merged
	SamplesPerPixel int     // Samples taken for every pixel
	TotalSamples    int     // Total number of samples taken
	MeanLuminance   float64 // Average linear luminance over the image
}
