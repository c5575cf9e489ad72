package env

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	TelegramBotToken string
	TelegramGroupID  int64

	DextoolsAPIKey  string
	DextoolsAPIPlan string
	DextoolsChain   string
	DextoolsBaseURL string

	LaunchpadBaseURL string

	ExplorerBaseURL string

	HolderCap int

	Port string
)

func loadEnvVariable(key string, isRequired bool) string {
	value := os.Getenv(key)
	if isRequired && value == "" {
		log.Fatalf("FATAL: Environment variable %s is required but not set.", key)
	}
	isHidden := key == "TELEGRAM_BOT_TOKEN" || key == "DEXTOOLS_API_KEY"
	if value == "" {
		if !isRequired {
			log.Printf("INFO: Environment variable %s is not set.", key)
		}
	} else if isHidden {
		log.Printf("INFO: Loaded %s (value hidden)", key)
	} else {
		log.Printf("INFO: Loaded %s = %s", key, value)
	}
	return value
}

func loadInt64Env(key string, required bool) int64 {
	strValue := loadEnvVariable(key, required)
	if strValue == "" {
		if !required {
			log.Printf("INFO: Optional int64 environment variable %s is missing, defaulting to 0.", key)
			return 0
		}
		log.Fatalf("FATAL: Required int64 environment variable %s is missing after load.", key)
		return 0
	}
	id, err := strconv.ParseInt(strValue, 10, 64)
	if err != nil {
		log.Fatalf("FATAL: Failed to parse int64 environment variable %s='%s': %v", key, strValue, err)
	}
	return id
}

func LoadEnv() error {
	err := godotenv.Load()
	if err != nil {
		log.Println("INFO: .env file not found or error loading, relying on system environment variables.")
	} else {
		log.Println("INFO: .env file loaded successfully.")
	}

	TelegramBotToken = loadEnvVariable("TELEGRAM_BOT_TOKEN", true)
	TelegramGroupID = loadInt64Env("TELEGRAM_GROUP_ID", false)

	DextoolsAPIKey = loadEnvVariable("DEXTOOLS_API_KEY", true)
	DextoolsAPIPlan = loadEnvVariable("DEXTOOLS_API_PLAN", true)
	DextoolsChain = loadEnvVariable("DEXTOOLS_CHAIN", false)
	if DextoolsChain == "" {
		DextoolsChain = "apechain"
		log.Printf("INFO: DEXTOOLS_CHAIN not set, defaulting to %s", DextoolsChain)
	}
	DextoolsBaseURL = loadEnvVariable("DEXTOOLS_BASE_URL", false)
	if DextoolsBaseURL == "" {
		DextoolsBaseURL = "https://public-api.dextools.io"
	}

	LaunchpadBaseURL = loadEnvVariable("LAUNCHPAD_BASE_URL", false)
	if LaunchpadBaseURL == "" {
		LaunchpadBaseURL = "https://ape.express/api"
	}

	ExplorerBaseURL = loadEnvVariable("EXPLORER_BASE_URL", false)
	if ExplorerBaseURL == "" {
		ExplorerBaseURL = "https://apescan.io"
	}

	holderCapStr := loadEnvVariable("HOLDER_CAP", false)
	if holderCapStr == "" {
		HolderCap = 50
		log.Printf("INFO: HOLDER_CAP not set, defaulting to %d", HolderCap)
	} else {
		var parseErr error
		HolderCap, parseErr = strconv.Atoi(holderCapStr)
		if parseErr != nil || HolderCap < 0 {
			log.Printf("WARN: Invalid value '%s' for HOLDER_CAP. Defaulting to 50. Error: %v", holderCapStr, parseErr)
			HolderCap = 50
		}
	}

	Port = loadEnvVariable("PORT", false)
	if Port == "" {
		Port = "8080"
		log.Printf("INFO: PORT not set, defaulting to %s", Port)
	}

	if TelegramGroupID == 0 {
		log.Println("WARN: TELEGRAM_GROUP_ID is not set. Log forwarding to Telegram is disabled.")
	}

	log.Println("INFO: Environment variables loading process complete.")
	return nil
}
