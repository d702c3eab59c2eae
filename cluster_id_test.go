// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package geocluster_test

import (
	"errors"
	"testing"

	"github.com/2dChan/geocluster"
)

func TestClusterID_Zero(t *testing.T) {
	var id geocluster.ClusterID
	if !id.IsZero() {
		t.Errorf("ClusterID{}.IsZero() = false, want true")
	}
	if got := id.String(); got != "" {
		t.Errorf("ClusterID{}.String() = %q, want empty", got)
	}
}

func TestParseClusterID_RoundTrip(t *testing.T) {
	idx := buildPairIndex(t)
	id := pairCluster(t, idx)

	got, err := geocluster.ParseClusterID(id.String())
	if err != nil {
		t.Fatalf("ParseClusterID(%q) error = %v, want nil", id.String(), err)
	}
	if !got.Equal(id) {
		t.Errorf("ParseClusterID(%q) = %v, want %v", id.String(), got, id)
	}
	if _, err := idx.Members(got); err != nil {
		t.Errorf("Members(parsed id) error = %v, want nil", err)
	}
}

func TestParseClusterID_Invalid(t *testing.T) {
	tests := []string{
		"",
		"no-separator",
		"not-a-uuid/3",
		"0b7f3a4e-2c55-4a8e-9b8e-3f1f2b8c9d10/",
		"0b7f3a4e-2c55-4a8e-9b8e-3f1f2b8c9d10/-1",
		"0b7f3a4e-2c55-4a8e-9b8e-3f1f2b8c9d10/4294967296",
	}
	for _, s := range tests {
		if _, err := geocluster.ParseClusterID(s); !errors.Is(err, geocluster.ErrUnknownCluster) {
			t.Errorf("ParseClusterID(%q) error = %v, want ErrUnknownCluster", s, err)
		}
	}
}

func TestParseClusterID_ForeignBuild(t *testing.T) {
	idx := buildPairIndex(t)
	id, err := geocluster.ParseClusterID("0b7f3a4e-2c55-4a8e-9b8e-3f1f2b8c9d10/0")
	if err != nil {
		t.Fatalf("ParseClusterID() error = %v, want nil", err)
	}
	if _, err := idx.Members(id); !errors.Is(err, geocluster.ErrUnknownCluster) {
		t.Errorf("Members(foreign id) error = %v, want ErrUnknownCluster", err)
	}
}
