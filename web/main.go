package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-stream-raytracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	static := flag.String("static", "static", "Directory with the preview page")
	flag.Parse()

	webServer := server.NewServer(*port, *static)

	log.Printf("Stream Raytracer Web Server")
	log.Printf("Visit http://localhost:%d to start rendering", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
