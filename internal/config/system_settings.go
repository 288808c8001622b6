package config

import (
	"os"
	"strconv"
)

const DATABASE_TYPE = "AUTOERP_DATABASE_TYPE"
const DATABASE_URL = "AUTOERP_DATABASE_URL"
const DATABASE_SQLLITE_FILE_NAME = "AUTOERP_DATABASE_SQLLITE_FILE_NAME"
const SERVER_WEB_PORT = "AUTOERP_SERVER_WEB_PORT"
const SERVER_HTTP_ADDR = "AUTOERP_SERVER_HTTP_ADDR" //full listen address, overrides SERVER_WEB_PORT when set
const DEFAULT_PAGE_SIZE = "AUTOERP_DEFAULT_PAGE_SIZE" //per_page used when the caller does not supply one
const MAX_PAGE_SIZE = "AUTOERP_MAX_PAGE_SIZE"
const SYSTEM_ACTOR = "AUTOERP_SYSTEM_ACTOR" //actor recorded on instance logs when no user id is supplied
const ROOT_API_KEY = "AUTOERP_ROOT_API_KEY" //seeds the first api user when the users table is empty
const AUTH_DISABLED = "AUTOERP_AUTH_DISABLED"

const DATABASE_TYPE_POSTGRES = "POSTGRES"
const DATABASE_TYPE_MYSQL = "MYSQL"
const DATABASE_TYPE_SQLLITE = "SQLLITE"

func GetSystemSettingInteger(settingKey string) int {
	val := GetSystemSettingString(settingKey)
	if val != "" {
		intValue, _ := strconv.Atoi(val)
		return intValue
	}
	return 0
}

func GetSystemSettingString(settingKey string) string {
	val := os.Getenv(settingKey)
	if val != "" {
		return val
	}
	if settingKey == SERVER_WEB_PORT {
		return "8080"
	}
	if settingKey == DEFAULT_PAGE_SIZE {
		return "25"
	}
	if settingKey == MAX_PAGE_SIZE {
		return "200"
	}
	if settingKey == SYSTEM_ACTOR {
		return "system"
	}
	if settingKey == DATABASE_SQLLITE_FILE_NAME {
		return "./autoerp.db"
	}
	return ""
}
