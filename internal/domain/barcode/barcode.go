// Package barcode genera códigos de producto secuenciales y códigos de barras
// compuestos. Todo es determinista y sin efectos secundarios, por lo que puede
// llamarse dentro o fuera de una transacción.
package barcode

import (
	"fmt"
	"strconv"

	"github.com/engenho/estoque-api/internal/domain"
)

const (
	// ProductCodeLength dígitos del código secuencial de producto.
	ProductCodeLength = 4
	// AttributeCodeLength dígitos de los códigos de tipo y color.
	AttributeCodeLength = 2
	// BarcodeLength largo total del código de barras compuesto.
	BarcodeLength = ProductCodeLength + 2*AttributeCodeLength

	maxProductCode = 9999
)

// NextProductCode devuelve el siguiente código secuencial de 4 dígitos.
// "0000" (ningún producto previo) produce "0001". Devuelve ErrInvalidCodeFormat
// si lastCode no es un entero no negativo y ErrCodeSpaceExhausted al pasar 9999.
func NextProductCode(lastCode string) (string, error) {
	n, err := strconv.Atoi(lastCode)
	if err != nil || n < 0 {
		return "", domain.ErrInvalidCodeFormat
	}
	n++
	if n > maxProductCode {
		return "", domain.ErrCodeSpaceExhausted
	}
	return fmt.Sprintf("%04d", n), nil
}

// ComposeBarcode concatena productCode(4) + typeCode(2) + colorCode(2).
// Devuelve ErrInvalidArgumentLength si algún largo no coincide.
func ComposeBarcode(productCode, typeCode, colorCode string) (string, error) {
	if len(productCode) != ProductCodeLength ||
		len(typeCode) != AttributeCodeLength ||
		len(colorCode) != AttributeCodeLength {
		return "", domain.ErrInvalidArgumentLength
	}
	return productCode + typeCode + colorCode, nil
}
