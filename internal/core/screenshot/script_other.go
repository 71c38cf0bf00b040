//go:build !darwin && !linux

package screenshot

const defaultCaptureScript = ""
