// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package notify

type noop struct{}

func (n *noop) PresenceChanged(e PresenceEvent) {}

func (n *noop) CommandResolved(e CommandEvent) {}

func (n *noop) Close() {}
