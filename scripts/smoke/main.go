package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Expect   int    `json:"expect"`
	Critical bool   `json:"critical"`
}

type result struct {
	Target   target
	Status   int
	Duration time.Duration
	Error    error
}

// defaultTargets covers the read-only surface of every endpoint group. Write
// endpoints are left to the test suite; a smoke run must not mutate data.
var defaultTargets = []target{
	{Method: "GET", Path: "/health", Expect: http.StatusOK, Critical: true},
	{Method: "GET", Path: "/metrics", Expect: http.StatusOK, Critical: false},
	{Method: "GET", Path: "/api/v1/auth/me", Expect: http.StatusOK, Critical: true},
	{Method: "GET", Path: "/api/v1/candidates", Expect: http.StatusOK, Critical: true},
	{Method: "GET", Path: "/api/v1/openings", Expect: http.StatusOK, Critical: true},
	{Method: "GET", Path: "/api/v1/links", Expect: http.StatusOK, Critical: true},
	{Method: "GET", Path: "/api/v1/dashboard", Expect: http.StatusOK, Critical: false},
	{Method: "GET", Path: "/api/v1/backups", Expect: http.StatusOK, Critical: false},
}

func main() {
	var (
		base        string
		username    string
		password    string
		cookieName  string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&username, "username", os.Getenv("SMOKE_USERNAME"), "Login username")
	flag.StringVar(&password, "password", os.Getenv("SMOKE_PASSWORD"), "Login password")
	flag.StringVar(&cookieName, "cookie", "ro_recruiting_auth", "Session cookie name")
	flag.StringVar(&targetsPath, "targets", "", "Optional JSON targets file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets := defaultTargets
	if targetsPath != "" {
		loaded, err := loadTargets(targetsPath)
		if err != nil {
			log.Fatalf("failed to load targets: %v", err)
		}
		targets = loaded
	}

	client := &http.Client{Timeout: timeout}

	session, err := login(client, base, username, password)
	if err != nil {
		log.Fatalf("login failed: %v", err)
	}

	var results []result
	failed := 0
	for _, t := range targets {
		res := check(client, base, cookieName, session, t)
		if res.Error != nil || res.Status != t.Expect {
			if t.Critical {
				failed++
			}
		}
		results = append(results, res)
	}

	printReport(results)
	if failed > 0 {
		fmt.Printf("%d critical endpoint(s) failing\n", failed)
		os.Exit(1)
	}
	fmt.Println("all critical endpoints healthy")
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var targets []target
	if err := json.Unmarshal(data, &targets); err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return targets, nil
}

// login authenticates against /auth/login and returns the session cookie
// value.
func login(client *http.Client, base, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", fmt.Errorf("username and password are required (flags or SMOKE_USERNAME/SMOKE_PASSWORD)")
	}

	payload, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return "", err
	}

	resp, err := client.Post(strings.TrimRight(base, "/")+"/api/v1/auth/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected login status %d", resp.StatusCode)
	}
	for _, c := range resp.Cookies() {
		if c.Value != "" {
			return c.Value, nil
		}
	}
	return "", fmt.Errorf("no session cookie in login response")
}

func check(client *http.Client, base, cookieName, session string, tgt target) result {
	res := result{Target: tgt}

	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		res.Error = err
		return res
	}
	req.AddCookie(&http.Cookie{Name: cookieName, Value: session})

	start := time.Now()
	resp, err := client.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		res.Error = err
		return res
	}
	defer resp.Body.Close()

	res.Status = resp.StatusCode
	return res
}

func printReport(results []result) {
	fmt.Println("Smoke Report")
	fmt.Println("============")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if res.Status != res.Target.Expect {
			status = "FAIL"
		}
		fmt.Printf("[%s] %s %s\n", status, res.Target.Method, res.Target.Path)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
			continue
		}
		fmt.Printf("  Status: %d (want %d) in %s | Critical: %t\n", res.Status, res.Target.Expect, res.Duration, res.Target.Critical)
	}
}
