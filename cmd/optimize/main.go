// optimize runs the pipeline once, synchronously, against local inputs.
// Useful for trying prompts and inspecting scores without the daemon.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/matchiq/matchiq/internal/common"
	"github.com/matchiq/matchiq/internal/ingest"
	"github.com/matchiq/matchiq/internal/keywords"
	"github.com/matchiq/matchiq/internal/llm"
)

func main() {
	var (
		resumePath = flag.String("resume", "", "path to a plain-text resume file")
		jobPath    = flag.String("job", "", "path to a plain-text job description file")
		jobURL     = flag.String("job-url", "", "URL of a job posting to scrape instead of -job")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	if *resumePath == "" || (*jobPath == "" && *jobURL == "") {
		fmt.Fprintln(os.Stderr, "usage: optimize -resume resume.txt (-job description.txt | -job-url https://...)")
		os.Exit(2)
	}

	resumeText, err := readTextFile(*resumePath)
	if err != nil {
		fatal("reading resume: %v", err)
	}

	ctx := context.Background()
	cfg := common.LoadConfig()

	var jobDescription string
	if *jobURL != "" {
		fetcher := ingest.NewFetcher(cfg.Ingest.FetchTimeout, logger)
		jobDescription, err = fetcher.FetchJobDescription(ctx, *jobURL)
	} else {
		jobDescription, err = readTextFile(*jobPath)
	}
	if err != nil {
		fatal("reading job description: %v", err)
	}

	kws := keywords.Extract(jobDescription)
	score := keywords.Score(resumeText, kws)

	generator := llm.NewClient(llm.Config{
		APIURL:         cfg.LLM.APIURL,
		APIKey:         cfg.LLM.APIKey,
		Model:          cfg.LLM.Model,
		Temperature:    cfg.LLM.Temperature,
		MaxTokens:      cfg.LLM.MaxTokens,
		ConnectTimeout: cfg.LLM.ConnectTimeout,
		Timeout:        cfg.LLM.Timeout,
	}, logger)

	bullets, err := generator.GenerateBullets(ctx, resumeText, jobDescription, kws)
	if err != nil {
		fatal("generating bullets: %v", err)
	}
	cover, err := generator.GenerateCoverLetter(ctx, resumeText, jobDescription, kws)
	if err != nil {
		fatal("generating cover letter: %v", err)
	}

	fmt.Printf("ATS score: %d%%\n", score)
	fmt.Printf("Keywords (%d): %s\n\n", len(kws), strings.Join(kws, ", "))
	fmt.Println("Optimized bullet points:")
	fmt.Println(bullets)
	fmt.Println()
	fmt.Println("Tailored cover letter:")
	fmt.Println(cover)
}

func readTextFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return ingest.ReadResume(filepath.Base(path), f, ingest.DefaultMaxDocumentBytes)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
