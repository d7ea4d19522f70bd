package entity

// Re-export common types from the common package.

import (
	"faceauth/internal/entity/common"
)

type Meta = common.Meta
type BaseParams = common.BaseParams
