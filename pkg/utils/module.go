package utils

import "go.uber.org/fx"

// Module provides utility functions to the Fx application
var Module = fx.Module("utils")

// This package provides utility functions
// No specific providers needed as it's a utility package
