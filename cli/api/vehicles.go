// Copyright (c) Qualcomm Technologies, Inc. and/or its subsidiaries.
// SPDX-License-Identifier: BSD-3-Clause-Clear

package api

import (
	models "github.com/pitlink/trackside-cloud/server/api"
)

type (
	VehicleItem   = models.VehicleItem
	VehicleDetail = models.VehicleDetail
)

type VehiclesApi struct {
	api *Api
}

func (a *Api) Vehicles() VehiclesApi {
	return VehiclesApi{
		api: a,
	}
}

func (v VehiclesApi) List() ([]VehicleItem, error) {
	var vehicles []VehicleItem
	return vehicles, v.api.Get("/v1/vehicles", &vehicles)
}

func (v VehiclesApi) Show(id string) (*VehicleDetail, error) {
	var vehicle VehicleDetail
	return &vehicle, v.api.Get("/v1/vehicles/"+id, &vehicle)
}
