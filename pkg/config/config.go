/*
 * @Description: 统一配置管理 (手动加载，文件 + 环境变量双层覆盖)
 * @Author: 安知鱼
 * @Date: 2025-09-02 12:10:08
 * @LastEditTime: 2026-02-20 10:33:15
 * @LastEditors: 安知鱼
 */
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
	"github.com/spf13/viper"
)

// 定义所有已知的配置键
var allKeys = []string{
	KeyServerPort, KeyServerDebug,
	KeyDBType, KeyDBPath, KeyDBHost, KeyDBPort, KeyDBUser, KeyDBPassword, KeyDBName,
	KeyObjectEndpoint, KeyObjectRegion, KeyObjectBucket,
	KeyObjectAccessKey, KeyObjectSecretKey, KeyObjectPublicURL,
	KeyMediaMaxUploadSizeMB, KeyMediaMaxWidth, KeyMediaMaxHeight,
	KeyMediaQuality, KeyMediaThumbQuality, KeyMediaThumbSize,
	KeyContentMaxSizeMB, KeyMigrationBatchSize,
}

const (
	KeyServerPort  = "System.Port"
	KeyServerDebug = "System.Debug"

	KeyDBType     = "Database.Type"
	KeyDBPath     = "Database.Path"
	KeyDBHost     = "Database.Host"
	KeyDBPort     = "Database.Port"
	KeyDBUser     = "Database.User"
	KeyDBPassword = "Database.Password"
	KeyDBName     = "Database.Name"

	KeyObjectEndpoint  = "ObjectStorage.Endpoint"
	KeyObjectRegion    = "ObjectStorage.Region"
	KeyObjectBucket    = "ObjectStorage.Bucket"
	KeyObjectAccessKey = "ObjectStorage.AccessKey"
	KeyObjectSecretKey = "ObjectStorage.SecretKey"
	KeyObjectPublicURL = "ObjectStorage.PublicURL"

	KeyMediaMaxUploadSizeMB = "Media.MaxUploadSizeMB"
	KeyMediaMaxWidth        = "Media.MaxWidth"
	KeyMediaMaxHeight       = "Media.MaxHeight"
	KeyMediaQuality         = "Media.Quality"
	KeyMediaThumbQuality    = "Media.ThumbQuality"
	KeyMediaThumbSize       = "Media.ThumbSize"

	KeyContentMaxSizeMB   = "Content.MaxSizeMB"
	KeyMigrationBatchSize = "Migration.BatchSize"
)

type Config struct {
	vp *viper.Viper
}

// NewConfig 手动加载配置：先读 data/conf.ini 作为默认值，再用环境变量覆盖。
// 配置文件不存在时自动创建一份带默认值的文件。
func NewConfig() (*Config, error) {
	vp := viper.New()
	filePath := "data/conf.ini"

	// --- 步骤 1: 使用 go-ini 从文件加载配置 (作为默认值) ---
	iniCfg, err := ini.Load(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("提示: 未找到 %s，将创建默认配置文件。", filePath)
			if err := createDefaultConfigFile(filePath); err != nil {
				log.Printf("警告: 创建默认配置文件失败: %v，将仅依赖环境变量或内部默认值。", err)
			} else {
				log.Printf("✅ 已创建默认配置文件: %s", filePath)
				iniCfg, err = ini.Load(filePath)
				if err != nil {
					log.Printf("警告: 重新加载配置文件失败: %v", err)
				}
			}
		} else {
			return nil, fmt.Errorf("错误: 解析配置文件 '%s' 失败: %w", filePath, err)
		}
	}

	// 如果文件成功加载，则将其中的值全部设置到 Viper 中
	if iniCfg != nil {
		for _, section := range iniCfg.Sections() {
			for _, key := range section.Keys() {
				viperKey := fmt.Sprintf("%s.%s", section.Name(), key.Name())
				if section.Name() == "DEFAULT" {
					viperKey = key.Name()
				}
				vp.Set(viperKey, key.Value())
			}
		}
		log.Println("从 data/conf.ini 文件加载了默认配置。")
	}

	// --- 步骤 2: 手动检查并覆盖环境变量 ---
	envReplacer := strings.NewReplacer(".", "_")
	envPrefix := "AURORA"

	for _, key := range allKeys {
		// 构建环境变量名，例如 AURORA_DATABASE_HOST
		envVarName := fmt.Sprintf("%s_%s", envPrefix, envReplacer.Replace(strings.ToUpper(key)))
		if value, found := os.LookupEnv(envVarName); found {
			vp.Set(key, value)
			log.Printf("发现环境变量: %s, 已覆盖配置 '%s'。", envVarName, key)
		}
	}

	log.Println("✅ 配置加载器初始化完成。")
	return &Config{vp: vp}, nil
}

func (c *Config) GetString(key string) string {
	return c.vp.GetString(key)
}

func (c *Config) GetInt(key string) int {
	return c.vp.GetInt(key)
}

func (c *Config) GetBool(key string) bool {
	return c.vp.GetBool(key)
}

// GetIntOrDefault 读取整型配置，未配置或非法时返回给定默认值。
func (c *Config) GetIntOrDefault(key string, def int) int {
	if v := c.vp.GetInt(key); v > 0 {
		return v
	}
	return def
}

// createDefaultConfigFile 创建默认的配置文件
func createDefaultConfigFile(filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}

	// 默认配置内容（使用 SQLite 作为默认数据库）
	defaultConfig := `[System]
Port = 8091
Debug = false

[Database]
Type = sqlite
Path = data/aurora_app.db

# 对象存储配置（可选）
# 留空时对象存储后端不可用，媒体与内容均使用内联存储
[ObjectStorage]
Endpoint =
Region =
Bucket =
AccessKey =
SecretKey =
PublicURL =

[Media]
MaxUploadSizeMB = 5
MaxWidth = 1920
MaxHeight = 1080
Quality = 80
ThumbQuality = 70
ThumbSize = 200

[Content]
MaxSizeMB = 10

[Migration]
BatchSize = 10
`

	if err := os.WriteFile(filePath, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	return nil
}
