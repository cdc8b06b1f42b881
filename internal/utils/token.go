package utils

import (
  "math/rand"
  "strconv"
  "strings"
  "time"
)

const tokenEntropyLen = 6

// GenerateUserToken returns an opaque public token for a newly registered
// user: base36 unix-millis, a dash, then 6 random base36 characters.
// Uniqueness additionally rests on the unique column constraint at the store.
func GenerateUserToken() string {
  ts := strconv.FormatInt(time.Now().UnixMilli(), 36)
  const alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
  var sb strings.Builder
  for i := 0; i < tokenEntropyLen; i++ {
    sb.WriteByte(alphabet[rand.Intn(len(alphabet))])
  }
  return ts + "-" + sb.String()
}
