package enums

import "fmt"

// DocumentType identifies which daily counter a document draws its ID from.
type DocumentType string

const (
	DocumentTypeOrders    DocumentType = "orders"
	DocumentTypePurchases DocumentType = "purchases"
)

var validDocumentTypes = []DocumentType{
	DocumentTypeOrders,
	DocumentTypePurchases,
}

// String implements fmt.Stringer.
func (d DocumentType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DocumentType.
func (d DocumentType) IsValid() bool {
	for _, candidate := range validDocumentTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDocumentType converts raw input into a DocumentType.
func ParseDocumentType(value string) (DocumentType, error) {
	for _, candidate := range validDocumentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid document type %q", value)
}
