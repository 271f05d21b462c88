package test

import "math/rand"

const asciiLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// RandomASCIIString returns a pseudo-random ASCII string with a length in
// [minLen, maxLen]. Equal bounds produce exactly that length.
func RandomASCIIString(minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	length := minLen + rand.Intn(maxLen-minLen+1)
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = asciiLetters[rand.Intn(len(asciiLetters))]
	}
	return string(buf)
}
