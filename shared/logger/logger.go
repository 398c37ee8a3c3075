// Copyright 2026 Arkham Advisor Contributors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logger

import (
	"encoding/json"
	"log"
	"os"
	"time"
)

// Level represents the severity of a log entry.
type Level string

const (
	Debug Level = "DEBUG"
	Info  Level = "INFO"
	Warn  Level = "WARN"
	Error Level = "ERROR"
)

// Logger emits structured, single-line JSON log entries through the
// standard library log package (stderr by default, after log's date/time
// prefix), one instance per component (orchestrator, rulesagent,
// simulator, ...).
type Logger struct {
	Component  string
	InstanceID string
	Host       string
}

// Entry is the JSON shape written for every log call.
type Entry struct {
	Timestamp string                 `json:"timestamp"`
	Level     Level                  `json:"level"`
	Component string                 `json:"component"`
	Instance  string                 `json:"instance_id"`
	Host      string                 `json:"host"`
	RequestID string                 `json:"request_id,omitempty"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// New creates a Logger for the named component.
func New(component string) *Logger {
	instanceID := os.Getenv("ADVISOR_INSTANCE_ID")
	if instanceID == "" {
		instanceID = "local"
	}

	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}

	return &Logger{Component: component, InstanceID: instanceID, Host: host}
}

func (l *Logger) emit(level Level, requestID, message string, fields map[string]interface{}) {
	entry := Entry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level,
		Component: l.Component,
		Instance:  l.InstanceID,
		Host:      l.Host,
		RequestID: requestID,
		Message:   message,
		Fields:    fields,
	}

	line, err := json.Marshal(entry)
	if err != nil {
		log.Printf("logger: failed to marshal entry: %v", err)
		return
	}
	log.Println(string(line))
}

// Info logs at INFO level.
func (l *Logger) Info(requestID, message string, fields map[string]interface{}) {
	l.emit(Info, requestID, message, fields)
}

// Error logs at ERROR level.
func (l *Logger) Error(requestID, message string, fields map[string]interface{}) {
	l.emit(Error, requestID, message, fields)
}

// Warn logs at WARN level.
func (l *Logger) Warn(requestID, message string, fields map[string]interface{}) {
	l.emit(Warn, requestID, message, fields)
}

// Debug logs at DEBUG level.
func (l *Logger) Debug(requestID, message string, fields map[string]interface{}) {
	l.emit(Debug, requestID, message, fields)
}

// InfoDuration logs an INFO entry tagged with an elapsed-time field.
func (l *Logger) InfoDuration(requestID, message string, elapsed time.Duration, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["duration_ms"] = elapsed.Milliseconds()
	l.Info(requestID, message, fields)
}

// ErrorWithKind logs an ERROR entry tagged with the error's classification.
func (l *Logger) ErrorWithKind(requestID, message, kind string, err error, fields map[string]interface{}) {
	if fields == nil {
		fields = make(map[string]interface{})
	}
	fields["error_kind"] = kind
	if err != nil {
		fields["error"] = err.Error()
	}
	l.Error(requestID, message, fields)
}
