package repositories

import (
	"context"
	"testing"
	"time"

	"warehouse/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type VariantRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      VariantRepository
	itemID    uuid.UUID
	variantID uuid.UUID
	context   context.Context
}

func (suite *VariantRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewVariantRepo(mock)
	suite.itemID = uuid.New()
	suite.variantID = uuid.New()
	suite.context = context.Background()
}

func (suite *VariantRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestVariantRepoTestSuite(t *testing.T) {
	suite.Run(t, new(VariantRepoTestSuite))
}

func variantColumns() []string {
	return []string{"id", "item_id", "sku", "name", "price", "stock_quantity", "active", "created_at", "updated_at"}
}

func (suite *VariantRepoTestSuite) TestCreate_Success() {
	variant := &models.ItemVariant{
		ID:            suite.variantID,
		ItemID:        suite.itemID,
		SKU:           "TSHIRT-S-RED",
		Name:          "Small / Red",
		Price:         19.99,
		StockQuantity: 25,
		Active:        true,
	}

	suite.mock.ExpectExec(`INSERT INTO item_variants`).
		WithArgs(variant.ID, variant.ItemID, variant.SKU, variant.Name, variant.Price, variant.StockQuantity, variant.Active).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, variant)
	assert.NoError(suite.T(), err)
}

func (suite *VariantRepoTestSuite) TestGetByID_Found() {
	now := time.Now()
	suite.mock.ExpectQuery(`FROM item_variants`).
		WithArgs(suite.variantID).
		WillReturnRows(pgxmock.NewRows(variantColumns()).
			AddRow(suite.variantID, suite.itemID, "TSHIRT-S-RED", "Small / Red", 19.99, 25, true, now, now))

	variant, err := suite.repo.GetByID(suite.context, suite.variantID)

	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), variant)
	assert.Equal(suite.T(), "TSHIRT-S-RED", variant.SKU)
	assert.Equal(suite.T(), 25, variant.StockQuantity)
}

func (suite *VariantRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`FROM item_variants`).
		WithArgs(suite.variantID).
		WillReturnRows(pgxmock.NewRows(variantColumns()))

	variant, err := suite.repo.GetByID(suite.context, suite.variantID)

	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), variant)
}

func (suite *VariantRepoTestSuite) TestLockForUpdate_ReturnsRowsInIDOrder() {
	firstID := uuid.MustParse("0aaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	secondID := uuid.MustParse("0bbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
	ids := []uuid.UUID{firstID, secondID}

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(`FOR UPDATE OF v`).
		WithArgs(ids).
		WillReturnRows(pgxmock.NewRows([]string{"id", "item_id", "sku", "name", "price", "stock_quantity", "active", "item_active"}).
			AddRow(firstID, suite.itemID, "SKU-A", "A", 1.0, 5, true, true).
			AddRow(secondID, suite.itemID, "SKU-B", "B", 2.0, 7, true, true))
	suite.mock.ExpectCommit()

	tx, err := suite.mock.Begin(suite.context)
	assert.NoError(suite.T(), err)

	locked, err := suite.repo.LockForUpdate(suite.context, tx, ids)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), locked, 2)
	assert.Equal(suite.T(), firstID, locked[0].ID)
	assert.Equal(suite.T(), secondID, locked[1].ID)
	assert.True(suite.T(), locked[0].ItemActive)

	assert.NoError(suite.T(), tx.Commit(suite.context))
}

func (suite *VariantRepoTestSuite) TestUpdateStock() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(`UPDATE item_variants`).
		WithArgs(12, suite.variantID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	tx, err := suite.mock.Begin(suite.context)
	assert.NoError(suite.T(), err)

	err = suite.repo.UpdateStock(suite.context, tx, suite.variantID, 12)
	assert.NoError(suite.T(), err)

	assert.NoError(suite.T(), tx.Commit(suite.context))
}

func (suite *VariantRepoTestSuite) TestExistsBySKU() {
	suite.mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("TSHIRT-S-RED").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := suite.repo.ExistsBySKU(suite.context, "TSHIRT-S-RED")

	assert.NoError(suite.T(), err)
	assert.True(suite.T(), exists)
}

func (suite *VariantRepoTestSuite) TestLowStock() {
	now := time.Now()
	suite.mock.ExpectQuery(`stock_quantity <= \$1`).
		WithArgs(10).
		WillReturnRows(pgxmock.NewRows(variantColumns()).
			AddRow(suite.variantID, suite.itemID, "TSHIRT-S-RED", "Small / Red", 19.99, 3, true, now, now))

	variants, err := suite.repo.LowStock(suite.context, 10)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), variants, 1)
	assert.Equal(suite.T(), 3, variants[0].StockQuantity)
}
