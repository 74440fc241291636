//go:build !gcloud

package taskqueue

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestPrimindTasksClient_RegisterNotification(t *testing.T) {
	fireAt := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	task := NewNotificationTask("user-1", "exercise_20240115_0930", fireAt)

	var got PrimindTaskRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tasks/reminders" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(PrimindTaskResponse{
			Name:         got.Task.Name,
			ScheduleTime: got.Task.ScheduleTime,
			CreateTime:   "2024-01-15T08:00:00Z",
		})
	}))
	defer server.Close()

	client := NewPrimindTasksClient(PrimindTasksConfig{
		BaseURL:     server.URL,
		QueueName:   "reminders",
		CallbackURL: "http://reminder.local/api/v1/deliveries",
	})

	resp, err := client.RegisterNotification(context.Background(), task)
	if err != nil {
		t.Fatalf("RegisterNotification() error = %v", err)
	}

	if resp.Name != task.TaskID {
		t.Errorf("Name = %q, want %q", resp.Name, task.TaskID)
	}
	if !resp.ScheduleTime.Equal(fireAt) {
		t.Errorf("ScheduleTime = %v, want %v", resp.ScheduleTime, fireAt)
	}
	if got.Task.HTTPRequest.URL != "http://reminder.local/api/v1/deliveries" {
		t.Errorf("callback url = %q", got.Task.HTTPRequest.URL)
	}

	body, err := base64.StdEncoding.DecodeString(got.Task.HTTPRequest.Body)
	if err != nil {
		t.Fatalf("body is not base64: %v", err)
	}
	var decoded NotificationTask
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("body is not a notification task: %v", err)
	}
	if decoded.TaskID != task.TaskID || decoded.UserID != "user-1" || decoded.Identifier != "exercise_20240115_0930" || !decoded.ScheduleAt.Equal(fireAt) {
		t.Errorf("decoded body = %+v", decoded)
	}
}

func TestPrimindTasksClient_RetriesThenFails(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewPrimindTasksClient(PrimindTasksConfig{BaseURL: server.URL, MaxRetries: 2})

	_, err := client.RegisterNotification(context.Background(), NewNotificationTask("user-1", "dead_response", time.Now()))
	if err == nil {
		t.Fatal("RegisterNotification() expected error")
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestPrimindTasksClient_DeleteTask(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "deleted", status: http.StatusNoContent},
		{name: "already processed", status: http.StatusNotFound},
		{name: "server error", status: http.StatusInternalServerError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodDelete || r.URL.Path != "/tasks/reminder-abc" {
					t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
				}
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			client := NewPrimindTasksClient(PrimindTasksConfig{BaseURL: server.URL, MaxRetries: 1})
			err := client.DeleteTask(context.Background(), "reminder-abc")
			if (err != nil) != tt.wantErr {
				t.Errorf("DeleteTask() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewNotificationTask_UniqueTaskIDs(t *testing.T) {
	at := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

	a := NewNotificationTask("user-1", "dead_response", at)
	b := NewNotificationTask("user-1", "dead_response", at)
	if a.TaskID == b.TaskID {
		t.Errorf("task ids collide: %q", a.TaskID)
	}
	for _, r := range a.TaskID {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
			t.Fatalf("task id %q contains %q", a.TaskID, r)
		}
	}
}
