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

/*
Package logger provides structured JSON logging shared across the
advisor's components (orchestrator, subagents, simulator).

# Overview

Log entries are written as single-line JSON through the standard
library log package (stderr by default, after log's date/time prefix),
so each entry is one JSON object per line.

Each entry includes:
  - Timestamp (RFC3339Nano)
  - Log level (DEBUG, INFO, WARN, ERROR)
  - Component name (orchestrator, rulesagent, simulator, ...)
  - Instance ID and host (for correlating across replicas)
  - Request ID (for correlating one advisory request across subagents)
  - Custom fields

# Usage

Create a logger for your component:

	log := logger.New("rulesagent")

Log a message with request correlation:

	log.Info(req.RequestID, "evaluating legality", map[string]interface{}{
	    "investigator": req.InvestigatorID,
	    "candidates":   len(candidates),
	})

Log a classified error:

	log.ErrorWithKind(req.RequestID, "card store lookup failed",
	    string(advisorerrors.KindDependencyUnavailable), err, nil)

Log with elapsed time:

	start := time.Now()
	// ... do work ...
	log.InfoDuration(req.RequestID, "request complete", time.Since(start), nil)

# Environment Variables

  - ADVISOR_INSTANCE_ID: deployment instance identifier (default "local")

The host field comes from os.Hostname ("unknown" if that fails), not
from an environment variable.

# Thread Safety

Logger instances are safe for concurrent use from multiple goroutines.
*/
package logger
