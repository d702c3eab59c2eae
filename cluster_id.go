// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package geocluster

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ClusterID identifies a cluster within one Index build. Ids are never valid
// across builds: every build draws a fresh build id.
type ClusterID struct {
	build uuid.UUID
	seq   uint32
}

// IsZero reports whether id is the zero ClusterID, as carried by leaf nodes.
func (id ClusterID) IsZero() bool {
	return id == ClusterID{}
}

// Equal reports whether two ids are the same.
func (id ClusterID) Equal(other ClusterID) bool {
	return id == other
}

// String encodes the id as "<build uuid>/<seq>". See ParseClusterID.
func (id ClusterID) String() string {
	if id.IsZero() {
		return ""
	}
	return id.build.String() + "/" + strconv.FormatUint(uint64(id.seq), 10)
}

// ParseClusterID decodes an id produced by ClusterID.String. Malformed input
// fails with ErrUnknownCluster.
func ParseClusterID(s string) (ClusterID, error) {
	b, n, ok := strings.Cut(s, "/")
	if !ok {
		return ClusterID{}, fmt.Errorf("ParseClusterID: %q: %w", s, ErrUnknownCluster)
	}
	build, err := uuid.Parse(b)
	if err != nil {
		return ClusterID{}, fmt.Errorf("ParseClusterID: %q: %v: %w", s, err, ErrUnknownCluster)
	}
	seq, err := strconv.ParseUint(n, 10, 32)
	if err != nil {
		return ClusterID{}, fmt.Errorf("ParseClusterID: %q: %v: %w", s, err, ErrUnknownCluster)
	}
	return ClusterID{build: build, seq: uint32(seq)}, nil
}
