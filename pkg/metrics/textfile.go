// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-quorum.
//
// go-quorum is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile writes every metric registered with the default registry to
// path in the Prometheus text exposition format. The file is replaced
// atomically so a node_exporter textfile collector never reads a partial
// write.
func WriteTextfile(path string) error {
	return WriteTextfileFrom(path, prometheus.DefaultGatherer)
}

// WriteTextfileFrom is WriteTextfile for an arbitrary gatherer.
func WriteTextfileFrom(path string, g prometheus.Gatherer) error {
	if path == "" {
		return fmt.Errorf("metrics: textfile path is empty")
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("metrics: failed to write textfile: %w", err)
	}
	return nil
}
