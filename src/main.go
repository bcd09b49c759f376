package main

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"pcs/src/config"
	"pcs/src/db"
	"pcs/src/lib/mailer"
	"pcs/src/logging"
	"pcs/src/metrics"
	"pcs/src/middlewares"
	"pcs/src/services"
	"pcs/src/store"
	"pcs/src/store/gormstore"
	"pcs/src/types"
)

const apiPrefix string = "/api/v1"

// application holds the wired collaborators the handlers close over.
type application struct {
	bookings      *services.BookingService
	contacts      store.ContactStore
	notifications store.NotificationStore
	notifier      services.Notifier
	officeEmail   string
	log           zerolog.Logger
}

var app *application

var futureDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	datetime, err := time.Parse(config.TIME_PARSE_FORMAT, date)
	if err != nil {
		return false
	}
	return datetime.After(time.Now())
}

var phoneValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	v, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return services.PhonePattern.MatchString(v)
}

var postcodeValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	v, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return services.PostcodePattern.MatchString(v)
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("futuredate", futureDateValidatorFunc)
		v.RegisterValidation("phone", phoneValidatorFunc)
		v.RegisterValidation("postcode", postcodeValidatorFunc)
	}
}

func setupRouter(a *application) *gin.Engine {
	app = a
	metrics.Register()
	registerValidators()

	router := gin.Default()
	router.Use(middlewares.SecureHeaders)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cc := cors.DefaultConfig()
		cc.AllowOrigins = strings.Split(origins, ",")
		cc.AllowHeaders = append(cc.AllowHeaders, "Authorization")
		router.Use(cors.New(cc))
	} else {
		router.Use(cors.Default())
	}
	router.Use(middlewares.Metrics)

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := router.Group(apiPrefix)
	publicHandlers(public)
	contactHandlers(public)

	authorized := router.Group(apiPrefix)
	authorized.Use(middlewares.AuthMiddleware)
	bookingHandlers(authorized)

	admin := router.Group(apiPrefix + "/admin")
	admin.Use(middlewares.AuthMiddleware, middlewares.RequireRoles(types.ROLE_ADMIN, types.ROLE_STAFF))
	adminHandlers(admin)
	adminContactHandlers(admin)

	return router
}

func main() {
	logger := logging.New()

	gdb := db.GetDb()
	if err := db.Migrate(gdb); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}

	notificationStore := &gormstore.Notifications{DB: gdb}
	notifier := mailer.New(notificationStore, logger)

	a := &application{
		bookings: &services.BookingService{
			Bookings:           &gormstore.Bookings{DB: gdb},
			Cancellations:      &gormstore.Cancellations{DB: gdb},
			Notifier:           notifier,
			OfficeEmail:        config.OfficeEmail(),
			Log:                logger,
			TechnicianStatuses: services.DefaultTechnicianStatuses(),
		},
		contacts:      &gormstore.Contacts{DB: gdb},
		notifications: notificationStore,
		notifier:      notifier,
		officeEmail:   config.OfficeEmail(),
		log:           logger,
	}

	router := setupRouter(a)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":9090"
	}
	logger.Info().Str("addr", addr).Msg("starting server")
	if err := router.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
