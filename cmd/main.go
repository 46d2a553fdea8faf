package main

import (
	"log"

	infra "github.com/coursekit/coursekit/internal/infrastructure"
	"github.com/coursekit/coursekit/internal/infrastructure/driver"
	"github.com/coursekit/coursekit/internal/infrastructure/logging"
	"github.com/coursekit/coursekit/internal/infrastructure/uuid"
	ihttp "github.com/coursekit/coursekit/internal/interfaces/http"
	"github.com/coursekit/coursekit/internal/lesson"
	"github.com/coursekit/coursekit/internal/product"
	"github.com/coursekit/coursekit/internal/progress"
	"github.com/coursekit/coursekit/internal/user"
	"github.com/coursekit/coursekit/internal/view"
	"go.uber.org/zap"
)

func main() {
	log.SetFlags(log.Lshortfile | log.Ldate | log.Ltime)
	option, err := infra.InitConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.NewLogger(&logging.Config{
		FilePath: option.Logging.FilePath,
		Level:    option.Logging.Level,
		AppID:    option.AppID,
		Env:      option.Env,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %s\n", err)
	}
	logger = logger.With(
		zap.String("service.id", option.AppID),
	)
	defer logger.Sync()

	dbConn, err := driver.GetDBConnection(&driver.DBConfig{
		User:     option.Database.User,
		Password: option.Database.Password,
		MaxConn:  option.Database.MaxConn,
		Protocol: option.Database.Protocol,
		Driver:   option.Database.Driver,
		Host:     option.Database.Host,
		Port:     option.Database.Port,
		Query:    option.Database.Query,
		Schema:   option.Database.Schema,
	})
	if err != nil {
		log.Fatalf("Failed to create DB connection: %s\n", err)
	}
	logger.Debug("Create db connection instance", zap.String("db.driver", option.Database.Driver),
		zap.String("db.schema", option.Database.Schema),
		zap.String("db.host", option.Database.Host),
		zap.Any("config", option.Database),
	)

	// without a configured redis host the token blacklist lives in process
	// memory, which is only acceptable for single-node development
	var rdb driver.KeyValueDB
	if option.KVStore.Host != "" {
		rdb = driver.NewRedisClient(option.KVStore.Host, option.KVStore.Port, option.KVStore.Password)
	} else {
		if option.Env == infra.EnvProduction {
			log.Fatal("kv.host is required in production")
		}
		rdb = driver.NewMemoryStore()
	}

	UUIDGenerator := uuid.NewNanoIDGenerator(option.Security.IDLength)
	UserRepo := user.NewUserRepository(dbConn, UUIDGenerator)
	UserUseCase := user.NewUserUseCase(UserRepo)

	LessonRepo := lesson.NewLessonRepository(dbConn, UUIDGenerator)
	LessonUseCase := lesson.NewLessonUseCase(LessonRepo)

	ProductRepo := product.NewProductRepository(dbConn, UUIDGenerator)
	ProductUseCase := product.NewProductUseCase(ProductRepo, UserRepo, LessonRepo)

	ProgressRepo := progress.NewProgressRepository(dbConn, UUIDGenerator)
	ProgressUseCase := progress.NewProgressUseCase(ProgressRepo, LessonRepo)

	Presenter := view.NewPresenter(LessonRepo, ProgressRepo)

	ihttp.Serve(dbConn, rdb, option, UserUseCase, UserRepo, LessonUseCase, ProductUseCase, ProgressUseCase, Presenter, logger)
}
