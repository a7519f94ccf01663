package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/shopkeeper/internal/models"
)

func validProduct() *models.LocalProduct {
	return &models.LocalProduct{
		LocalID:         "l1",
		Name:            "Go Patterns Guide",
		Description:     "A practical guide",
		CategoryID:      "ebooks",
		Price:           1500,
		DeliveryType:    models.DeliveryDownload,
		DeliveryPayload: "https://files.example/guide.pdf",
		Status:          models.StatusDraft,
	}
}

func TestValidateProduct(t *testing.T) {
	tests := []struct {
		modify  func(p *models.LocalProduct)
		name    string
		errMsg  string
		wantErr bool
	}{
		{
			name:   "valid product",
			modify: func(p *models.LocalProduct) {},
		},
		{
			name:   "valid min length name",
			modify: func(p *models.LocalProduct) { p.Name = "abc" },
		},
		{
			name:   "valid unicode name counted in characters",
			modify: func(p *models.LocalProduct) { p.Name = "Гид" },
		},
		{
			name:    "name too short",
			modify:  func(p *models.LocalProduct) { p.Name = "ab" },
			wantErr: true,
			errMsg:  "name must be at least 3 characters long",
		},
		{
			name:    "name too long",
			modify:  func(p *models.LocalProduct) { p.Name = strings.Repeat("a", 101) },
			wantErr: true,
			errMsg:  "name must not exceed 100 characters",
		},
		{
			name:    "empty name",
			modify:  func(p *models.LocalProduct) { p.Name = "   " },
			wantErr: true,
			errMsg:  "name cannot be empty",
		},
		{
			name:    "description too long",
			modify:  func(p *models.LocalProduct) { p.Description = strings.Repeat("d", 5001) },
			wantErr: true,
			errMsg:  "description must not exceed 5000 characters",
		},
		{
			name:    "zero price",
			modify:  func(p *models.LocalProduct) { p.Price = 0 },
			wantErr: true,
			errMsg:  "price must be between 1 and 10000000",
		},
		{
			name:   "max price",
			modify: func(p *models.LocalProduct) { p.Price = MaxPrice },
		},
		{
			name:    "price above max",
			modify:  func(p *models.LocalProduct) { p.Price = MaxPrice + 1 },
			wantErr: true,
			errMsg:  "price must be between",
		},
		{
			name:    "bad category",
			modify:  func(p *models.LocalProduct) { p.CategoryID = "E Books" },
			wantErr: true,
			errMsg:  "category id",
		},
		{
			name:    "unknown delivery",
			modify:  func(p *models.LocalProduct) { p.DeliveryType = "email" },
			wantErr: true,
			errMsg:  `unknown delivery type "email"`,
		},
		{
			name:    "download without payload",
			modify:  func(p *models.LocalProduct) { p.DeliveryPayload = "" },
			wantErr: true,
			errMsg:  "delivery payload is required for download delivery",
		},
		{
			name:    "download with non url payload",
			modify:  func(p *models.LocalProduct) { p.DeliveryPayload = "guide.pdf" },
			wantErr: true,
			errMsg:  "invalid download delivery payload",
		},
		{
			name: "repo with ssh payload",
			modify: func(p *models.LocalProduct) {
				p.DeliveryType = models.DeliveryRepo
				p.DeliveryPayload = "git@github.com:seller/private.git"
			},
		},
		{
			name: "manual without payload",
			modify: func(p *models.LocalProduct) {
				p.DeliveryType = models.DeliveryManual
				p.DeliveryPayload = ""
			},
		},
		{
			name:   "valid content hash",
			modify: func(p *models.LocalProduct) { p.ContentHash = strings.Repeat("ab", 32) },
		},
		{
			name:    "content hash not hex",
			modify:  func(p *models.LocalProduct) { p.ContentHash = "zz" },
			wantErr: true,
			errMsg:  "content hash must be hex encoded",
		},
		{
			name:    "content hash wrong length",
			modify:  func(p *models.LocalProduct) { p.ContentHash = "abcd" },
			wantErr: true,
			errMsg:  "content hash must be 32 bytes, got 2",
		},
		{
			name:    "negative file size",
			modify:  func(p *models.LocalProduct) { p.FileSizeBytes = -1 },
			wantErr: true,
			errMsg:  "file size cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProduct()
			tt.modify(p)

			err := ValidateProduct(p)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// Все ошибки возвращаются сразу, а не только первая
func TestValidateProduct_CollectsAllErrors(t *testing.T) {
	p := validProduct()
	p.Name = "x"
	p.Price = -5
	p.DeliveryType = "fax"

	err := ValidateProduct(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name must be at least")
	assert.Contains(t, err.Error(), "price must be between")
	assert.Contains(t, err.Error(), "unknown delivery type")
}

func TestValidateProduct_Nil(t *testing.T) {
	assert.Error(t, ValidateProduct(nil))
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("https://example.com/a"))
	assert.NoError(t, ValidateURL("http://localhost:8080"))
	assert.Error(t, ValidateURL("ftp://example.com"))
	assert.Error(t, ValidateURL("https://"))
	assert.Error(t, ValidateURL("::not a url"))
}

func TestValidateProfile(t *testing.T) {
	ok := models.StoreProfile{
		Name:    "Bob's Tools",
		Tagline: "Sharp tools",
		Links:   map[string]string{"site": "https://bob.example"},
	}
	assert.NoError(t, ValidateProfile(ok))
	assert.NoError(t, ValidateProfile(models.StoreProfile{}))

	bad := ok
	bad.Tagline = strings.Repeat("t", MaxTaglineLen+1)
	bad.Links = map[string]string{"site": "bob.example"}
	err := ValidateProfile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tagline must not exceed")
	assert.Contains(t, err.Error(), `link "site"`)
}
