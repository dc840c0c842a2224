// Command smoke exercises a running todo-api end to end: login, create
// a student, attach a todo, read stats, clean up.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/cookiejar"
	"os"
	"time"
)

func main() {
	baseURL := os.Getenv("TODO_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8840"
	}
	username := os.Getenv("TODO_ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("TODO_ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("TODO_ADMIN_PASSWORD environment variable is not set")
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		log.Fatalf("cookiejar: %v", err)
	}
	client := &http.Client{Jar: jar, Timeout: 10 * time.Second}

	post := func(path string, body any) map[string]any {
		payload, err := json.Marshal(body)
		if err != nil {
			log.Fatalf("marshal %s: %v", path, err)
		}
		resp, err := client.Post(baseURL+path, "application/json", bytes.NewReader(payload))
		if err != nil {
			log.Fatalf("POST %s: %v", path, err)
		}
		defer resp.Body.Close()
		var out map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			log.Fatalf("decode %s: %v", path, err)
		}
		if resp.StatusCode >= 400 {
			log.Fatalf("POST %s: %d %v", path, resp.StatusCode, out["detail"])
		}
		return out
	}
	del := func(path string) {
		req, _ := http.NewRequest(http.MethodDelete, baseURL+path, nil)
		resp, err := client.Do(req)
		if err != nil {
			log.Fatalf("DELETE %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode >= 400 {
			log.Fatalf("DELETE %s: %d", path, resp.StatusCode)
		}
	}

	post("/api/auth/login", map[string]string{"username": username, "password": password})
	log.Println("logged in")

	st := post("/api/students", map[string]string{
		"student_name": "Smoke Test",
		"email":        fmt.Sprintf("smoke-%d@example.com", time.Now().Unix()),
	})
	studentID := int64(st["id"].(float64))
	log.Printf("student created: id=%d", studentID)

	td := post("/api/todos", map[string]any{
		"student_id": studentID,
		"title":      "smoke todo",
		"priority":   "high",
	})
	todoID := int64(td["id"].(float64))
	log.Printf("todo created: id=%d status=%v", todoID, td["status"])

	resp, err := client.Get(baseURL + "/api/todos/stats")
	if err != nil {
		log.Fatalf("GET stats: %v", err)
	}
	var stats map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		log.Fatalf("decode stats: %v", err)
	}
	resp.Body.Close()
	log.Printf("stats: total=%v high_priority=%v", stats["total"], stats["high_priority"])

	del(fmt.Sprintf("/api/todos/%d", todoID))
	del(fmt.Sprintf("/api/students/%d", studentID))
	log.Println("cleanup done, smoke passed")
}
