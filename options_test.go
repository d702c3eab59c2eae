// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

package geocluster_test

import (
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/2dChan/geocluster"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestDefaultOptions(t *testing.T) {
	want := geocluster.Options{
		Radius:    30,
		MinZoom:   0,
		MaxZoom:   16,
		MinPoints: 2,
		Extent:    512,
	}
	if diff := cmp.Diff(want, geocluster.DefaultOptions()); diff != "" {
		t.Errorf("DefaultOptions() mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_InvalidConfig(t *testing.T) {
	valid := geocluster.DefaultOptions()
	inverted := valid
	inverted.MinZoom, inverted.MaxZoom = 10, 5

	tests := []struct {
		name   string
		option geocluster.Option
	}{
		{"zero radius", geocluster.WithRadius(0)},
		{"negative radius", geocluster.WithRadius(-1)},
		{"infinite radius", geocluster.WithRadius(math.Inf(1))},
		{"NaN radius", geocluster.WithRadius(math.NaN())},
		{"inverted zoom range", geocluster.WithZoomRange(10, 5)},
		{"negative min zoom", geocluster.WithZoomRange(-1, 5)},
		{"max zoom above limit", geocluster.WithZoomRange(0, geocluster.MaxZoomLimit+1)},
		{"min points one", geocluster.WithMinPoints(1)},
		{"zero extent", geocluster.WithExtent(0)},
		{"inverted options struct", geocluster.WithOptions(inverted)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, err := geocluster.Build(nil, tt.option)
			if !errors.Is(err, geocluster.ErrInvalidConfig) {
				t.Errorf("Build() error = %v, want ErrInvalidConfig", err)
			}
			if idx != nil {
				t.Errorf("Build() index = non-nil, want nil")
			}
		})
	}
}

func TestBuild_OptionsApplied(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	idx, err := geocluster.Build(nil,
		geocluster.WithRadius(60),
		geocluster.WithZoomRange(2, 10),
		geocluster.WithMinPoints(3),
		geocluster.WithExtent(256),
		geocluster.WithLogger(logger),
	)
	if err != nil {
		t.Fatalf("Build() error = %v, want nil", err)
	}
	want := geocluster.Options{
		Radius:    60,
		MinZoom:   2,
		MaxZoom:   10,
		MinPoints: 3,
		Extent:    256,
		Logger:    logger,
	}
	if diff := cmp.Diff(want, idx.Options(), cmpopts.IgnoreFields(geocluster.Options{}, "Logger")); diff != "" {
		t.Errorf("Options() mismatch (-want +got):\n%s", diff)
	}
	if idx.Options().Logger != logger {
		t.Errorf("Options().Logger = %p, want %p", idx.Options().Logger, logger)
	}
}

func TestWithZoomRange_Limit(t *testing.T) {
	if _, err := geocluster.Build(nil, geocluster.WithZoomRange(0, geocluster.MaxZoomLimit)); err != nil {
		t.Errorf("Build() with zoom range [0 %d] error = %v, want nil", geocluster.MaxZoomLimit, err)
	}
	if _, err := geocluster.Build(nil, geocluster.WithZoomRange(7, 7)); err != nil {
		t.Errorf("Build() with zoom range [7 7] error = %v, want nil", err)
	}
}
