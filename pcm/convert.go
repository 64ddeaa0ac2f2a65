// SPDX-License-Identifier: EPL-2.0

package pcm

import "encoding/binary"

// Float32ToInt16 converts a normalized sample to 16-bit PCM.
func Float32ToInt16(x float32) int16 {
	// Clamp and scale
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// Use 32767 for positive max to avoid overflow
	return int16(x * 32767.0)
}

// Float32ToInt32 converts a normalized sample to 32-bit PCM.
func Float32ToInt32(x float32) int32 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	return int32(float64(x) * 2147483647.0)
}

// Int16ToFloat32 converts a 16-bit PCM sample to the normalized range.
func Int16ToFloat32(v int16) float32 {
	return float32(v) / 32768.0
}

// Float32ToInt converts a normalized sample to PCM at the given bit depth
// (16 or 32), returned as an int for go-audio buffer interop.
func Float32ToInt(x float32, bitDepth int) int {
	if bitDepth == 32 {
		return int(Float32ToInt32(x))
	}
	return int(Float32ToInt16(x))
}

// DecodeInt16LE reads little-endian 16-bit PCM from src into dst and returns
// the number of samples written. src must hold at least len(dst)*2 bytes.
func DecodeInt16LE(dst []float32, src []byte) int {
	for i := range dst {
		v := int16(binary.LittleEndian.Uint16(src[i*2 : i*2+2]))
		dst[i] = Int16ToFloat32(v)
	}
	return len(dst)
}

// EncodeInt16LE writes src as little-endian 16-bit PCM into dst and returns
// the number of bytes written. dst must hold at least len(src)*2 bytes.
func EncodeInt16LE(dst []byte, src []float32) int {
	for i, v := range src {
		binary.LittleEndian.PutUint16(dst[i*2:i*2+2], uint16(Float32ToInt16(v)))
	}
	return len(src) * 2
}
