// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package gateway

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
	ctxKeyVehicle ctxKey = iota
)

func CtxGetVehicle(ctx Context) *fleet.Vehicle {
	return ctx.Value(ctxKeyVehicle).(*fleet.Vehicle)
}

func CtxWithVehicle(ctx Context, vehicle *fleet.Vehicle) Context {
	return context.WithValue(ctx, ctxKeyVehicle, vehicle)
}
