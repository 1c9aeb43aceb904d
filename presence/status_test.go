// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package presence

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveBoundaries(t *testing.T) {
	const now int64 = 1_000_000_000

	cases := []struct {
		name   string
		ageMs  int64
		status EdgeStatus
	}{
		{"fresh", 0, StatusOnline},
		{"just under online limit", 29_999, StatusOnline},
		{"exactly 30s", 30_000, StatusOnline},
		{"30.001s", 30_001, StatusStale},
		{"exactly 60s", 60_000, StatusStale},
		{"60.001s", 60_001, StatusOffline},
		{"long gone", 3_600_000, StatusOffline},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.status, Derive(now-tc.ageMs, now))
		})
	}
}

func TestIsOnline(t *testing.T) {
	require.True(t, StatusOnline.IsOnline())
	require.False(t, StatusStale.IsOnline())
	require.False(t, StatusOffline.IsOnline())
	require.False(t, StatusUnknown.IsOnline())
}
