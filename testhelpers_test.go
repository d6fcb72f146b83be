//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pawsitivelybooked/server/internal/application"
	"github.com/pawsitivelybooked/server/internal/events"
	"github.com/pawsitivelybooked/server/internal/notification"
	"github.com/pawsitivelybooked/server/internal/repository"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// bookingStack holds wired-up booking and lifecycle service components.
type bookingStack struct {
	Bookings        *application.BookingService
	Lifecycle       *application.LifecycleService
	CleanupProducer func()
}

// noopSender discards notification mail; integration tests assert on
// persisted state and Kafka events, not SMTP delivery.
type noopSender struct{}

func (noopSender) Send(notification.Message) error { return nil }

// setupContainers starts PostgreSQL and Kafka testcontainers and returns a connected GORM DB.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_paws",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test_paws sslmode=disable", pgHost, pgPort.Port())

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, db.AutoMigrate(
		&repository.UserModel{},
		&repository.FacilityModel{},
		&repository.FacilityPhotoModel{},
		&repository.DogModel{},
		&repository.BookingModel{},
	))

	// Start Kafka container using confluent-local (supports KRaft natively).
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, events.TopicBookingEvents)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupBookingStack wires up the booking and lifecycle services against real infrastructure.
func setupBookingStack(t *testing.T, db *gorm.DB, brokers []string) *bookingStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	bookingRepo := repository.NewGormBookingRepository(db)
	facilityRepo := repository.NewGormFacilityRepository(db)
	userRepo := repository.NewGormUserRepository(db)
	sweepStore := repository.NewGormSweepStore(db)
	producer := events.NewProducer(brokers, logger)
	mailer := noopSender{}

	bookingSvc := application.NewBookingService(bookingRepo, facilityRepo, userRepo, mailer, producer, logger)
	lifecycleSvc := application.NewLifecycleService(sweepStore, facilityRepo, userRepo, mailer, producer, false, logger)

	return &bookingStack{
		Bookings:        bookingSvc,
		Lifecycle:       lifecycleSvc,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// seedUser inserts a user row and returns its ID.
func seedUser(t *testing.T, db *gorm.DB, role, username, email string) uuid.UUID {
	t.Helper()
	now := time.Now().UTC()
	model := repository.UserModel{
		ID:           uuid.New(),
		Role:         role,
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: "$2a$10$integrationtestonlyhashhashhashhashhashhashhashhashha",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, db.Create(&model).Error, "failed to seed user")
	return model.ID
}

// seedFacility inserts a facility row offering both services and returns its ID.
func seedFacility(t *testing.T, db *gorm.DB, ownerID uuid.UUID, name string) uuid.UUID {
	t.Helper()
	now := time.Now().UTC()
	model := repository.FacilityModel{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Name:         name,
		Description:  "integration test facility",
		Location:     "Kuala Lumpur",
		Latitude:     3.139,
		Longitude:    101.6869,
		Daycare:      true,
		Boarding:     true,
		ContactEmail: "facility@integration.test",
		Capacity:     10,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, db.Create(&model).Error, "failed to seed facility")
	return model.ID
}

// seedBooking inserts a booking row in the given status and returns its ID.
func seedBooking(t *testing.T, db *gorm.DB, issuerID, facilityID uuid.UUID, status string, checkIn, checkOut time.Time) uuid.UUID {
	t.Helper()
	now := time.Now().UTC()
	model := repository.BookingModel{
		ID:           uuid.New(),
		BookingCode:  fmt.Sprintf("PB-INT%s", uuid.New().String()[:6]),
		IssuedBy:     issuerID,
		FacilityID:   facilityID,
		Status:       status,
		CheckIn:      checkIn,
		CheckOut:     checkOut,
		NumberOfDogs: 1,
		Boarding:     true,
		Notes:        "integration test",
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, db.Create(&model).Error, "failed to seed booking")
	return model.ID
}

// fetchBooking reads a booking row by ID.
func fetchBooking(t *testing.T, db *gorm.DB, bookingID uuid.UUID) repository.BookingModel {
	t.Helper()
	var model repository.BookingModel
	require.NoError(t, db.Where("id = ?", bookingID).First(&model).Error)
	return model
}

// fetchFacility reads a facility row by ID.
func fetchFacility(t *testing.T, db *gorm.DB, facilityID uuid.UUID) repository.FacilityModel {
	t.Helper()
	var model repository.FacilityModel
	require.NoError(t, db.Where("id = ?", facilityID).First(&model).Error)
	return model
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) events.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		ce, err := events.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")
}
