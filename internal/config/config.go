package config

import (
	"errors"
	"io/fs"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"5000"`

	DBType     string `env:"DBType" envDefault:"sqlite"`
	DSNURL     string `env:"DSN_URL" envDefault:""`
	DBUser     string `env:"DBUser" envDefault:"root"`
	DBPassword string `env:"DBPassword" envDefault:""`
	DBAddr     string `env:"DBAddr" envDefault:"localhost"`
	DBName     string `env:"DBName" envDefault:"absensi"`
	DBPath     string `env:"DBPath" envDefault:"datas/faceauth.db"`
	DBPort     string `env:"DBPort" envDefault:"3306"`

	// 人脸特征提取服务
	ExtractorURL            string `env:"EXTRACTOR_URL" envDefault:"http://127.0.0.1:8001/embeddings"`
	ExtractorAPIKey         string `env:"EXTRACTOR_API_KEY"`
	ExtractorTimeoutSeconds int    `env:"EXTRACTOR_TIMEOUT_SECONDS" envDefault:"30"`
	ExtractorWorkers        int    `env:"EXTRACTOR_WORKERS" envDefault:"4"`
	ExtractorQueue          int    `env:"EXTRACTOR_QUEUE" envDefault:"16"`

	MatchTolerance float64 `env:"MATCH_TOLERANCE" envDefault:"0.4"`
	MatchStrategy  string  `env:"MATCH_STRATEGY" envDefault:"primary"`

	AuditTimezone string `env:"AUDIT_TIMEZONE" envDefault:"Asia/Jakarta"`

	StorageType     string `env:"STORAGE_TYPE" envDefault:"none"`
	StorageLocalDir string `env:"STORAGE_LOCAL_DIR" envDefault:"datas/samples"`

	// S3 兼容存储配置
	StorageS3Region          string `env:"STORAGE_S3_REGION"`
	StorageS3Bucket          string `env:"STORAGE_S3_BUCKET"`
	StorageS3Prefix          string `env:"STORAGE_S3_PREFIX"`
	StorageS3Endpoint        string `env:"STORAGE_S3_ENDPOINT"`
	StorageS3AccessKeyID     string `env:"STORAGE_S3_ACCESS_KEY_ID"`
	StorageS3SecretAccessKey string `env:"STORAGE_S3_SECRET_ACCESS_KEY"`
	StorageS3SessionToken    string `env:"STORAGE_S3_SESSION_TOKEN"`
	StorageS3ForcePathStyle  bool   `env:"STORAGE_S3_FORCE_PATH_STYLE" envDefault:"false"`

	// 阿里云 OSS 存储配置
	StorageOSSEndpoint        string `env:"STORAGE_OSS_ENDPOINT"`
	StorageOSSBucket          string `env:"STORAGE_OSS_BUCKET"`
	StorageOSSPrefix          string `env:"STORAGE_OSS_PREFIX"`
	StorageOSSAccessKeyID     string `env:"STORAGE_OSS_ACCESS_KEY_ID"`
	StorageOSSAccessKeySecret string `env:"STORAGE_OSS_ACCESS_KEY_SECRET"`

	// 腾讯云 COS 存储配置
	StorageCOSBucketURL string `env:"STORAGE_COS_BUCKET_URL"`
	StorageCOSPrefix    string `env:"STORAGE_COS_PREFIX"`
	StorageCOSSecretID  string `env:"STORAGE_COS_SECRET_ID"`
	StorageCOSSecretKey string `env:"STORAGE_COS_SECRET_KEY"`

	// Cloudflare R2 存储配置
	StorageR2AccountID       string `env:"STORAGE_R2_ACCOUNT_ID"`
	StorageR2Endpoint        string `env:"STORAGE_R2_ENDPOINT"`
	StorageR2Region          string `env:"STORAGE_R2_REGION" envDefault:"auto"`
	StorageR2Bucket          string `env:"STORAGE_R2_BUCKET"`
	StorageR2Prefix          string `env:"STORAGE_R2_PREFIX"`
	StorageR2AccessKeyID     string `env:"STORAGE_R2_ACCESS_KEY_ID"`
	StorageR2SecretAccessKey string `env:"STORAGE_R2_SECRET_ACCESS_KEY"`

	// MinIO 存储配置
	StorageMinioEndpoint  string `env:"STORAGE_MINIO_ENDPOINT"`
	StorageMinioBucket    string `env:"STORAGE_MINIO_BUCKET" envDefault:"faceauth-samples"`
	StorageMinioPrefix    string `env:"STORAGE_MINIO_PREFIX"`
	StorageMinioAccessKey string `env:"STORAGE_MINIO_ACCESS_KEY"`
	StorageMinioSecretKey string `env:"STORAGE_MINIO_SECRET_KEY"`
	StorageMinioUseSSL    bool   `env:"STORAGE_MINIO_USE_SSL" envDefault:"false"`

	JWTSecret            string `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	JWTIssuer            string `env:"JWT_ISSUER" envDefault:"faceauth"`
	JWTExpirationMinutes int    `env:"JWT_EXPIRATION_MINUTES" envDefault:"480"`

	SeedAdminUsername string `env:"SEED_ADMIN_USERNAME"`
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD"`

	MetricsNamespace string `env:"METRICS_NAMESPACE" envDefault:"faceauth"`
}

// ParseConfig 读取 .env（可选）并解析环境变量
func ParseConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logrus.WithError(err).Warn("failed to load .env file")
	}

	var conf Config
	if err := env.Parse(&conf); err != nil {
		logrus.WithError(err).Error("env.Parse error")
		return Config{}, err
	}
	if conf.ExtractorWorkers <= 0 {
		conf.ExtractorWorkers = 1
	}
	if conf.ExtractorQueue < 0 {
		conf.ExtractorQueue = 0
	}
	logrus.WithFields(logrus.Fields{
		"db_type":         conf.DBType,
		"storage_type":    conf.StorageType,
		"match_strategy":  conf.MatchStrategy,
		"match_tolerance": conf.MatchTolerance,
	}).Debug("config loaded")
	return conf, nil
}
