// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package server

import (
	"github.com/pitlink/trackside-cloud/context"
)

// The request logger lives under the shared context key so the handler
// packages and this one always read what the middleware wrote.
var (
	CtxGetLog  = context.CtxGetLog
	CtxWithLog = context.CtxWithLog
)
