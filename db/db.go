package db

import (
	"log"
	"net/url"
	"tavern/config"

	drv "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var Instance *gorm.DB

// Init opens MySQL when MYSQL_DSN is configured and SQLite otherwise
func Init() {
	var dialector gorm.Dialector
	if config.MYSQL_DSN != "" {
		dsn, err := MySQLDSN(config.MYSQL_DSN)
		if err != nil {
			log.Fatalf("Invalid MYSQL_DSN: %v", err)
		}
		dialector = mysql.Open(dsn)
	} else {
		dialector = sqlite.Open(SQLiteDSN(config.SQLITE_FILE))
	}
	db, err := Open(dialector)
	if err != nil || db == nil {
		panic(err)
	}
	Instance = db
}

// Open connects to the database with the settings every connection shares.
// SQLite is limited to a single connection as it only supports one writer.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	isSQLite := dialector.Name() == "sqlite"
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            !isSQLite,
	})
	if err != nil {
		return nil, err
	}
	if isSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// OpenMemory opens a private in-memory SQLite database
func OpenMemory() (*gorm.DB, error) {
	return Open(sqlite.Open(SQLiteDSN(":memory:")))
}

// MySQLDSN validates the DSN and turns on the options the models rely on
func MySQLDSN(dsn string) (string, error) {
	cfg, err := drv.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	cfg.ParseTime = true
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	if _, ok := cfg.Params["charset"]; !ok {
		cfg.Params["charset"] = "utf8mb4"
	}
	return cfg.FormatDSN(), nil
}

// SQLiteDSN enables foreign keys. ":memory:" gets a uniquely named shared
// cache database so that every connection of the pool sees the same data.
func SQLiteDSN(file string) string {
	params := url.Values{}
	params.Set("_foreign_keys", "on")
	if file == ":memory:" {
		params.Set("mode", "memory")
		params.Set("cache", "shared")
		return "file:" + uuid.NewString() + "?" + params.Encode()
	}
	return "file:" + file + "?" + params.Encode()
}
