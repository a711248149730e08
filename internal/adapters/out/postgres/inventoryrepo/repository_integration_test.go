package inventoryrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"pharmaflow/internal/adapters/out/postgres/inventoryrepo"
	"pharmaflow/internal/core/domain/model/kernel"
	"pharmaflow/internal/core/domain/model/prescription"
)

// InventoryRepositoryIntegrationTestSuite verifies stock snapshots and
// reservation against a real PostgreSQL instance.
type InventoryRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *inventoryrepo.GormInventoryRepository

	healthPlusID uuid.UUID
	mediCareID   uuid.UUID
	paracetamol  uuid.UUID
	amoxicillin  uuid.UUID
}

func (suite *InventoryRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(
		&inventoryrepo.PharmacyDTO{}, &inventoryrepo.MedicineDTO{}))
}

func (suite *InventoryRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE pharmacies, medicines").Error)
	suite.repository = inventoryrepo.NewGormInventoryRepository(suite.db)

	suite.healthPlusID = uuid.New()
	suite.mediCareID = uuid.New()
	suite.paracetamol = uuid.New()
	suite.amoxicillin = uuid.New()

	suite.Require().NoError(suite.db.Create([]inventoryrepo.PharmacyDTO{
		{ID: suite.healthPlusID, Name: "HealthPlus"},
		{ID: suite.mediCareID, Name: "MediCare"},
	}).Error)
	suite.Require().NoError(suite.db.Create([]inventoryrepo.MedicineDTO{
		{ID: suite.paracetamol, PharmacyID: suite.healthPlusID,
			Name: "Paracetamol", UnitPrice: 2.5, Quantity: 10},
		{ID: suite.amoxicillin, PharmacyID: suite.mediCareID,
			Name: "Amoxicillin", UnitPrice: 7.0, Quantity: 2},
	}).Error)
}

func (suite *InventoryRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestSnapshots() {
	snapshots, err := suite.repository.Snapshots(context.Background())
	suite.Require().NoError(err)
	suite.Require().Len(snapshots, 2)

	suite.Equal("HealthPlus", snapshots[0].Name)
	suite.Require().Len(snapshots[0].Stock, 1)
	suite.Equal("Paracetamol", snapshots[0].Stock[0].Name)
	suite.InDelta(2.5, snapshots[0].Stock[0].UnitPrice, 0.001)
	suite.Equal(10, snapshots[0].Stock[0].Quantity)

	suite.Equal("MediCare", snapshots[1].Name)
	suite.Require().Len(snapshots[1].Stock, 1)
	suite.Equal("Amoxicillin", snapshots[1].Stock[0].Name)
}

func (suite *InventoryRepositoryIntegrationTestSuite) requestItem(
	medicineID uuid.UUID, name string, quantity int,
) prescription.RequestItem {
	id, err := kernel.UUIDFromBytes(medicineID[:])
	suite.Require().NoError(err)
	return prescription.RequestItem{MedicineID: id, Name: name, Quantity: quantity}
}

func (suite *InventoryRepositoryIntegrationTestSuite) medicineQuantity(id uuid.UUID) int {
	var medicine inventoryrepo.MedicineDTO
	suite.Require().NoError(suite.db.First(&medicine, "id = ?", id).Error)
	return medicine.Quantity
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestReserveStock_Decrements() {
	err := suite.repository.ReserveStock(context.Background(),
		[]prescription.RequestItem{
			suite.requestItem(suite.paracetamol, "Paracetamol", 3),
		})
	suite.Require().NoError(err)

	suite.Equal(7, suite.medicineQuantity(suite.paracetamol))
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestReserveStock_Insufficient() {
	err := suite.repository.ReserveStock(context.Background(),
		[]prescription.RequestItem{
			suite.requestItem(suite.amoxicillin, "Amoxicillin", 5),
		})

	var stockErr *prescription.InsufficientStockError
	suite.Require().ErrorAs(err, &stockErr)
	suite.Equal("Amoxicillin", stockErr.DrugName)
	suite.Equal(2, stockErr.Available)
	suite.Equal(5, stockErr.Requested)

	suite.Equal(2, suite.medicineQuantity(suite.amoxicillin))
}

func (suite *InventoryRepositoryIntegrationTestSuite) TestReserveStock_MissingRecord() {
	err := suite.repository.ReserveStock(context.Background(),
		[]prescription.RequestItem{
			suite.requestItem(uuid.New(), "Obscuredrug", 1),
		})
	suite.Require().ErrorIs(err, prescription.ErrMissingStockRecord)
}

func TestInventoryRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(InventoryRepositoryIntegrationTestSuite))
}
