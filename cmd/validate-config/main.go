package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/vladimiradmaev/nutrition-helper/internal/config"
)

func main() {
	bold := color.New(color.Bold)
	bold.Println("🔍 Checking configuration...")

	// Load .env if present
	if err := godotenv.Load(); err != nil {
		color.Yellow("⚠️  .env file not found: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		color.Red("❌ Configuration is invalid:")
		fmt.Println(err)
		os.Exit(1)
	}

	color.Green("✅ Configuration is valid!")
	bold.Println("📋 Details:")
	fmt.Printf("  - HTTP Port: %s\n", cfg.HTTP.Port)
	fmt.Printf("  - JWT Secret: %s\n", maskToken(cfg.Auth.JWTSecret))
	fmt.Printf("  - Gemini API Key: %s (model %s)\n", maskToken(cfg.AI.GeminiAPIKey), cfg.AI.GeminiModel)
	fmt.Printf("  - OpenAI API Key: %s (model %s)\n", maskToken(cfg.AI.OpenAIAPIKey), cfg.AI.OpenAIModel)
	fmt.Printf("  - AI Timeout: %s\n", cfg.AI.Timeout)
	fmt.Printf("  - Telegram Token: %s\n", maskToken(cfg.Telegram.Token))
	fmt.Printf("  - DB: %s@%s:%s/%s (sslmode=%s)\n", cfg.DB.User, cfg.DB.Host, cfg.DB.Port, cfg.DB.DBName, cfg.DB.SSLMode)
	if cfg.Redis.Enabled() {
		fmt.Printf("  - Redis: %s:%s\n", cfg.Redis.Host, cfg.Redis.Port)
	} else {
		fmt.Printf("  - Redis: %s\n", color.YellowString("disabled, bot state kept in memory"))
	}
	fmt.Printf("  - Timezone: %s\n", cfg.Location())
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
}

func maskToken(token string) string {
	if token == "" {
		return color.YellowString("<not set>")
	}
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
