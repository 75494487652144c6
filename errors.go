package dirtyhash

import "github.com/horockey/dirtyhash/internal/model"

type (
	ConfigurationError   = model.ConfigurationError
	StoreError           = model.StoreError
	DecodeError          = model.DecodeError
	EncodeError          = model.EncodeError
	InvalidArgumentError = model.InvalidArgumentError
)
