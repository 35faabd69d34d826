package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"userapp/internal/cli"
	"userapp/pkg/client"
)

func main() {
	apiURL := flag.String("api-url", defaultAPIURL(), "base URL of the users API")
	flag.Parse()

	app := cli.New(client.New(*apiURL), os.Stdin, os.Stdout)

	if err := app.Run(context.Background(), flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func defaultAPIURL() string {
	if url := os.Getenv("API_URL"); url != "" {
		return url
	}

	return "http://localhost:3000"
}
