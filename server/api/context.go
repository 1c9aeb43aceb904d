// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package api

import (
	"github.com/pitlink/trackside-cloud/context"
	"github.com/pitlink/trackside-cloud/storage/fleet"
)

type (
	Context = context.Context
	ctxKey  int
)

var (
	CtxGetLog  = context.CtxGetLog
	CtxWithLog = context.CtxWithLog
)

const (
	ctxKeyOperator ctxKey = iota
)

func CtxGetOperator(ctx Context) *fleet.OperatorToken {
	return ctx.Value(ctxKeyOperator).(*fleet.OperatorToken)
}

func CtxWithOperator(ctx Context, token *fleet.OperatorToken) Context {
	return context.WithValue(ctx, ctxKeyOperator, token)
}
