package pave

import "github.com/gogpu/pave/gpudata"

// Identity returns the identity transform.
func Identity() Transform {
	return gpudata.Identity()
}

// Translation returns a transform moving by (tx, ty).
func Translation(tx, ty float32) Transform {
	return gpudata.Translation(tx, ty)
}

// Scaling returns a transform scaling by (sx, sy) about the origin.
func Scaling(sx, sy float32) Transform {
	return gpudata.Scaling(sx, sy)
}

// Rotation returns a transform rotating by theta radians about the
// origin.
func Rotation(theta float32) Transform {
	return gpudata.Rotation(theta)
}

// Compositing operators, re-exported from [gpudata] for use in
// [FillOptions].
const (
	BlendSourceOver      = gpudata.BlendSourceOver
	BlendSource          = gpudata.BlendSource
	BlendDestination     = gpudata.BlendDestination
	BlendDestinationOver = gpudata.BlendDestinationOver
	BlendSourceIn        = gpudata.BlendSourceIn
	BlendDestinationIn   = gpudata.BlendDestinationIn
	BlendSourceOut       = gpudata.BlendSourceOut
	BlendDestinationOut  = gpudata.BlendDestinationOut
	BlendSourceAtop      = gpudata.BlendSourceAtop
	BlendDestinationAtop = gpudata.BlendDestinationAtop
	BlendXor             = gpudata.BlendXor
	BlendPlus            = gpudata.BlendPlus
	BlendModulate        = gpudata.BlendModulate
	BlendMultiply        = gpudata.BlendMultiply
	BlendScreen          = gpudata.BlendScreen
	BlendOverlay         = gpudata.BlendOverlay
	BlendDarken          = gpudata.BlendDarken
	BlendLighten         = gpudata.BlendLighten
	BlendColorDodge      = gpudata.BlendColorDodge
	BlendColorBurn       = gpudata.BlendColorBurn
	BlendHardLight       = gpudata.BlendHardLight
	BlendSoftLight       = gpudata.BlendSoftLight
	BlendDifference      = gpudata.BlendDifference
	BlendExclusion       = gpudata.BlendExclusion
	BlendHue             = gpudata.BlendHue
	BlendSaturation      = gpudata.BlendSaturation
	BlendColor           = gpudata.BlendColor
	BlendLuminosity      = gpudata.BlendLuminosity
)
