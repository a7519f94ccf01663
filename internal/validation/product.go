package validation

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/iudanet/shopkeeper/internal/models"
)

const (
	// MinNameLen минимальная длина названия продукта
	MinNameLen = 3
	// MaxNameLen максимальная длина названия продукта
	MaxNameLen = 100
	// MaxDescriptionLen максимальная длина описания
	MaxDescriptionLen = 5000
	// MinPrice минимальная цена в минимальных единицах валюты
	MinPrice = 1
	// MaxPrice максимальная цена в минимальных единицах валюты
	MaxPrice = 10_000_000
	// MaxTaglineLen максимальная длина слогана витрины
	MaxTaglineLen = 140
)

// CategoryPattern допустимый формат category_id: slug из строчных букв, цифр и дефисов
var CategoryPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,63}$`)

// ValidateProduct проверяет продукт перед сохранением.
// Возвращает все найденные ошибки, объединённые через errors.Join.
func ValidateProduct(p *models.LocalProduct) error {
	if p == nil {
		return fmt.Errorf("product is nil")
	}

	var errs []error

	if err := ValidateName(p.Name); err != nil {
		errs = append(errs, err)
	}

	if utf8.RuneCountInString(p.Description) > MaxDescriptionLen {
		errs = append(errs, fmt.Errorf("description must not exceed %d characters", MaxDescriptionLen))
	}

	if p.CategoryID != "" && !CategoryPattern.MatchString(p.CategoryID) {
		errs = append(errs, fmt.Errorf("category id %q can only contain lowercase letters, numbers and dashes", p.CategoryID))
	}

	if p.Price < MinPrice || p.Price > MaxPrice {
		errs = append(errs, fmt.Errorf("price must be between %d and %d", MinPrice, MaxPrice))
	}

	if err := ValidateDelivery(p.DeliveryType, p.DeliveryPayload); err != nil {
		errs = append(errs, err)
	}

	if p.ContentHash != "" {
		if err := ValidateContentHash(p.ContentHash); err != nil {
			errs = append(errs, err)
		}
	}

	if p.FileSizeBytes < 0 {
		errs = append(errs, fmt.Errorf("file size cannot be negative"))
	}

	return errors.Join(errs...)
}

// ValidateName проверяет длину названия (в символах, не байтах)
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	n := utf8.RuneCountInString(name)
	if n < MinNameLen {
		return fmt.Errorf("name must be at least %d characters long", MinNameLen)
	}
	if n > MaxNameLen {
		return fmt.Errorf("name must not exceed %d characters", MaxNameLen)
	}

	return nil
}

// ValidateDelivery проверяет способ доставки и его payload.
// Для manual payload не обязателен, для download он должен быть URL.
func ValidateDelivery(deliveryType models.DeliveryType, payload string) error {
	if !deliveryType.Valid() {
		return fmt.Errorf("unknown delivery type %q", deliveryType)
	}

	if deliveryType == models.DeliveryManual {
		return nil
	}

	if strings.TrimSpace(payload) == "" {
		return fmt.Errorf("delivery payload is required for %s delivery", deliveryType)
	}

	if deliveryType == models.DeliveryDownload {
		if err := ValidateURL(payload); err != nil {
			return fmt.Errorf("invalid %s delivery payload: %w", deliveryType, err)
		}
	}

	return nil
}

// ValidateContentHash проверяет, что хеш записан в hex (32 байта, BLAKE2b-256 или SHA-256)
func ValidateContentHash(hash string) error {
	raw, err := hex.DecodeString(hash)
	if err != nil {
		return fmt.Errorf("content hash must be hex encoded")
	}
	if len(raw) != 32 {
		return fmt.Errorf("content hash must be 32 bytes, got %d", len(raw))
	}
	return nil
}

// ValidateURL accepts absolute http(s) URLs only.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must use http or https scheme")
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}

// ValidateProfile проверяет профиль витрины
func ValidateProfile(p models.StoreProfile) error {
	var errs []error

	if p.Name != "" {
		if err := ValidateName(p.Name); err != nil {
			errs = append(errs, fmt.Errorf("store %w", err))
		}
	}
	if utf8.RuneCountInString(p.Tagline) > MaxTaglineLen {
		errs = append(errs, fmt.Errorf("tagline must not exceed %d characters", MaxTaglineLen))
	}
	if utf8.RuneCountInString(p.Description) > MaxDescriptionLen {
		errs = append(errs, fmt.Errorf("description must not exceed %d characters", MaxDescriptionLen))
	}
	for name, link := range p.Links {
		if err := ValidateURL(link); err != nil {
			errs = append(errs, fmt.Errorf("link %q: %w", name, err))
		}
	}

	return errors.Join(errs...)
}
