package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type teacher struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	Pool     string `json:"pool"`
	Position int    `json:"position"`
}

type constraint struct {
	TeacherName      string   `json:"teacherName"`
	HomeroomDisabled bool     `json:"homeroomDisabled"`
	MaxHomerooms     *int     `json:"maxHomerooms,omitempty"`
	Unavailable      []string `json:"unavailable,omitempty"`
}

type pin struct {
	ClassID     string `json:"classId"`
	TeacherName string `json:"teacherName"`
}

type rosterFile struct {
	Teachers    []teacher    `json:"teachers"`
	Constraints []constraint `json:"constraints"`
	Pins        []pin        `json:"pins"`
}

type outcome struct {
	Kind     string
	Ref      string
	Status   int
	Duration time.Duration
	Error    error
}

func main() {
	var (
		baseURL    string
		rosterPath string
		timeout    time.Duration
	)

	flag.StringVar(&baseURL, "base", "http://localhost:8080/api/v1", "Timetable API base URL")
	flag.StringVar(&rosterPath, "roster", filepath.Join("scripts", "seed_roster", "roster.json"), "Path to JSON roster file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	roster, err := loadRoster(rosterPath)
	if err != nil {
		log.Fatalf("failed to load roster: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var (
		outcomes []outcome
		failures int
	)

	for _, t := range roster.Teachers {
		out := put(client, baseURL, "/roster/teachers", "teacher", t.Name, t)
		if out.Error != nil || out.Status >= http.StatusBadRequest {
			failures++
		}
		outcomes = append(outcomes, out)
	}
	for _, c := range roster.Constraints {
		out := put(client, baseURL, "/roster/constraints", "constraint", c.TeacherName, c)
		if out.Error != nil || out.Status >= http.StatusBadRequest {
			failures++
		}
		outcomes = append(outcomes, out)
	}
	for _, p := range roster.Pins {
		out := put(client, baseURL, "/roster/fixed-homerooms", "pin", p.ClassID, p)
		if out.Error != nil || out.Status >= http.StatusBadRequest {
			failures++
		}
		outcomes = append(outcomes, out)
	}

	printReport(outcomes)

	fmt.Printf("Seeded: %d, Failed: %d\n", len(outcomes)-failures, failures)
	if failures > 0 {
		os.Exit(1)
	}
}

func loadRoster(path string) (*rosterFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var roster rosterFile
	if err := json.Unmarshal(data, &roster); err != nil {
		return nil, err
	}
	if len(roster.Teachers) == 0 {
		return nil, fmt.Errorf("no teachers defined in %s", path)
	}
	return &roster, nil
}

func put(client *http.Client, base, path, kind, ref string, payload interface{}) outcome {
	out := outcome{Kind: kind, Ref: ref}

	body, err := json.Marshal(payload)
	if err != nil {
		out.Error = fmt.Errorf("marshal payload: %w", err)
		return out
	}

	url := strings.TrimRight(base, "/") + path
	req, err := http.NewRequest(http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		out.Error = err
		return out
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := client.Do(req)
	out.Duration = time.Since(start)
	if err != nil {
		out.Error = err
		return out
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	out.Status = resp.StatusCode
	return out
}

func printReport(outcomes []outcome) {
	fmt.Println("Roster Seed Report")
	fmt.Println("==================")
	for _, out := range outcomes {
		status := "OK"
		if out.Error != nil || out.Status >= http.StatusBadRequest {
			status = "FAIL"
		}
		fmt.Printf("[%s] %s %s\n", status, out.Kind, out.Ref)
		if out.Error != nil {
			fmt.Printf("  Error: %v\n", out.Error)
			continue
		}
		fmt.Printf("  Status: %d (%s)\n", out.Status, out.Duration)
	}
}
