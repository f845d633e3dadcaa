//go:build ignore

package main

import (
	"fmt"
	"os"
	"os/exec"
)

// Starts the local backing services. Without Docker the API still runs with
// the in-memory store, memory cache and log-only event producer.
func main() {
	fmt.Println("🚀 Setting up PGUNCLE Development Environment")

	if err := checkDocker(); err != nil {
		fmt.Printf("⚠️  Docker issue detected: %v\n", err)
		fmt.Println("💡 You can still run without backing services: leave MONGO_URI and KAFKA_BROKERS unset")
		return
	}

	fmt.Println("✅ Docker is running")
	services := []string{"mongo", "mysql", "redis", "kafka"}
	fmt.Printf("🐳 Starting services: %v\n", services)

	cmd := exec.Command("docker-compose", append([]string{"up", "-d"}, services...)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		fmt.Printf("❌ Failed to start services: %v\n", err)
		return
	}

	fmt.Println("✅ Services started successfully!")
	fmt.Println("🎯 Next: go run scripts/migrate.go && go run .")
}

func checkDocker() error {
	return exec.Command("docker", "info").Run()
}
