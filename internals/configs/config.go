package configs

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"presensi_backend/internals/helpers/dbtime"

	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

var (
	JWTSecret string
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET belum diset!")
	} else {
		log.Println("✅ JWT_SECRET berhasil dimuat.")
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

func getEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("⚠️ %s=%q bukan angka, pakai default %d", key, v, def)
		return def
	}
	return i
}

func getEnvBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// =======================
// ATTENDANCE CONFIG
// =======================

const (
	DefaultTokenStepSeconds = 20
	MinTokenStepSeconds     = 5
	MaxTokenStepSeconds     = 300

	// prefix env secret harian: ATTENDANCE_DAILY_SECRET_MON .. _SUN
	DailySecretEnvPrefix = "ATTENDANCE_DAILY_SECRET_"
)

type AttendanceConfig struct {
	Location         *time.Location
	TokenStepSeconds int

	ScanRateMax    int
	ScanRateWindow time.Duration

	AutoCloseEnabled bool
	AutoCloseCron    string
}

func LoadAttendanceConfig() AttendanceConfig {
	step := getEnvInt("ATTENDANCE_TOKEN_STEP_SECONDS", DefaultTokenStepSeconds)
	if step < MinTokenStepSeconds || step > MaxTokenStepSeconds {
		log.Printf("⚠️ ATTENDANCE_TOKEN_STEP_SECONDS=%d di luar %d..%d, pakai %d",
			step, MinTokenStepSeconds, MaxTokenStepSeconds, DefaultTokenStepSeconds)
		step = DefaultTokenStepSeconds
	}

	cfg := AttendanceConfig{
		Location:         dbtime.LoadLocation(GetEnv("ATTENDANCE_TIMEZONE", dbtime.DefaultTimezone)),
		TokenStepSeconds: step,
		ScanRateMax:      getEnvInt("ATTENDANCE_SCAN_RATE_MAX", 10),
		ScanRateWindow:   time.Duration(getEnvInt("ATTENDANCE_SCAN_RATE_WINDOW_SECONDS", 60)) * time.Second,
		AutoCloseEnabled: getEnvBool("ATTENDANCE_AUTOCLOSE_ENABLED", true),
		AutoCloseCron:    GetEnv("ATTENDANCE_AUTOCLOSE_CRON", "5 0 * * *"),
	}
	log.Printf("✅ Attendance config: tz=%s step=%ds autoclose=%v", cfg.Location, cfg.TokenStepSeconds, cfg.AutoCloseEnabled)
	return cfg
}

// DailySecretEnvKey: 1 → ATTENDANCE_DAILY_SECRET_MON
func DailySecretEnvKey(day int) string {
	code := dbtime.WeekdayCode(day)
	if code == "" {
		return ""
	}
	return DailySecretEnvPrefix + strings.ToUpper(code)
}

// =======================
// DATABASE DSN
// =======================
func DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&application_name=presensi&options=-c statement_timeout=3000",
		GetEnv("DB_USER"),
		GetEnv("DB_PASSWORD"),
		GetEnv("DB_HOST"),
		GetEnv("DB_PORT", "5432"),
		GetEnv("DB_NAME"),
		GetEnv("DB_SSLMODE", "require"),
	)
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	level := gormLogger.Warn
	if getEnvBool("DB_LOG_QUERIES", false) {
		level = gormLogger.Info
	}
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      level,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	nl := *l
	nl.LogLevel = level
	return &nl
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.Printf("[INFO] "+msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.Printf("[WARN] "+msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.Printf("[ERROR] "+msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	switch {
	case err != nil && l.LogLevel >= gormLogger.Error:
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	case l.LogLevel >= gormLogger.Info:
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
