// Copyright 2026 The Dynamic2DLightning Authors
// SPDX-License-Identifier: MIT

// Package render provides the frame pipeline: render targets, the device
// abstraction, shading techniques and the pass-sequencing state machine.
//
// The Pipeline is the single pipeline-context object threaded through
// every component; nothing in lightning reaches for a hidden global
// device. Tests substitute a recording Device to observe draw traffic
// without any rasterization.
package render
