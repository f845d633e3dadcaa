package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"time"
)

// GenerateReceiptID returns the default receipt reference for a gateway order.
func GenerateReceiptID(now time.Time) string {
	return fmt.Sprintf("receipt_%d", now.UnixMilli())
}

// GenerateInstanceID identifies this process in published events.
func GenerateInstanceID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "pguncle"
	}
	randomNum, _ := rand.Int(rand.Reader, big.NewInt(999999))
	return fmt.Sprintf("%s-%d-%06d", host, os.Getpid(), randomNum.Int64())
}
