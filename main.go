package main

import "github.com/Rorical/RoriMeans/cmd"

func main() {
	cmd.Execute()
}
