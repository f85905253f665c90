package main

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"
)

// A dataset every visualization accepts.
const sampleCSV = `name,latitude,longitude,x,y,z,friend
Riga,56.95,24.11,1,1,2,Tartu
Tartu,58.38,26.72,2,1,3,Vilnius
Vilnius,54.69,25.28,1,2,4,Riga
Kaunas,54.90,23.89,2,2,5,Riga
`

func main() {
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	fmt.Println("Starting smoke test...")
	client := &http.Client{
		Timeout: 30 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	fmt.Println("1. Uploading dataset...")
	id, err := upload(client, baseURL)
	if err != nil {
		fmt.Printf("FAILED: Upload: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("PASSED: Upload (%s)\n", id)

	charts := []struct {
		kind  string
		query string
	}{
		{"surface", "x=x&y=y&z=z"},
		{"heatmap", ""},
		{"map", ""},
		{"line", "x=x&y=z"},
		{"network", "source=name&target=friend"},
	}
	for i, chart := range charts {
		fmt.Printf("%d. Rendering %s...\n", i+2, chart.kind)
		url := fmt.Sprintf("%s/datasets/%s/charts/%s?%s", baseURL, id, chart.kind, chart.query)
		contentType, size, err := fetch(client, url)
		if err != nil {
			fmt.Printf("FAILED: %s: %v\n", chart.kind, err)
			os.Exit(1)
		}
		fmt.Printf("PASSED: %s (%s, %d bytes)\n", chart.kind, contentType, size)
	}

	req, _ := http.NewRequest(http.MethodDelete, baseURL+"/api/datasets/"+id, nil)
	if resp, err := client.Do(req); err == nil {
		resp.Body.Close()
	}
}

func upload(client *http.Client, baseURL string) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "smoke.csv")
	if err != nil {
		return "", err
	}
	if _, err := part.Write([]byte(sampleCSV)); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	resp, err := client.Post(baseURL+"/datasets", w.FormDataContentType(), &body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	loc := resp.Header.Get("Location")
	if !strings.HasPrefix(loc, "/datasets/") {
		return "", fmt.Errorf("unexpected redirect %q", loc)
	}
	return strings.TrimPrefix(loc, "/datasets/"), nil
}

func fetch(client *http.Client, url string) (string, int, error) {
	resp, err := client.Get(url)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, err
	}
	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("status %d: %s", resp.StatusCode, data)
	}
	return resp.Header.Get("Content-Type"), len(data), nil
}
