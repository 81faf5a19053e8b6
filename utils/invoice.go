package utils

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/Govind-619/ScentSphere/models"
	"github.com/jung-kurt/gofpdf"
)

// GenerateInvoicePDF renders an order invoice
func GenerateInvoicePDF(order models.Order, customerEmail string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Store info
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(100, 10, AppName)
	pdf.SetFont("Arial", "", 12)
	pdf.Ln(8)
	pdf.Cell(100, 8, "Email: support@scentsphere.com")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(100, 10, "INVOICE")
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(50, 8, "Order ID: "+strconv.Itoa(int(order.ID)))
	pdf.Cell(60, 8, "Order Date: "+order.CreatedAt.Format("2006-01-02 15:04:05"))
	pdf.Ln(8)
	pdf.Cell(50, 8, "Payment: "+strings.ReplaceAll(order.PaymentMethod, "_", " "))
	pdf.Cell(60, 8, "Status: "+order.Status)
	pdf.Ln(10)

	ship := order.ShippingInfo
	pdf.SetFont("Arial", "B", 13)
	pdf.Cell(100, 8, "Ship To:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(100, 8, ship.FullName)
	pdf.Ln(6)
	if customerEmail != "" {
		pdf.Cell(100, 8, customerEmail)
		pdf.Ln(6)
	}
	pdf.Cell(100, 8, "Phone: "+ship.Phone)
	pdf.Ln(6)
	pdf.Cell(100, 8, ship.Line1)
	pdf.Ln(6)
	if ship.Line2 != "" {
		pdf.Cell(100, 8, ship.Line2)
		pdf.Ln(6)
	}
	parts := []string{}
	for _, p := range []string{ship.City, ship.State, ship.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	line := strings.Join(parts, ", ")
	if ship.PostalCode != "" {
		line += " - " + ship.PostalCode
	}
	pdf.Cell(100, 8, line)
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(70, 8, "Fragrance", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 8, "Size", "1", 0, "C", false, 0, "")
	pdf.CellFormat(15, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Price", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 8, "Total", "1", 0, "C", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 12)
	for _, item := range order.OrderItems {
		pdf.CellFormat(70, 8, item.ProductName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, item.SizeLabel, "1", 0, "C", false, 0, "")
		pdf.CellFormat(15, 8, strconv.Itoa(item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 8, FormatMoney(item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, FormatMoney(item.LineTotal), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	summary := [][2]string{
		{"Subtotal:", FormatMoney(order.Subtotal)},
		{"Discount:", FormatMoney(order.DiscountAmount)},
		{"Shipping:", FormatMoney(order.ShippingFee)},
		{"Paid from wallet:", FormatMoney(order.WalletAmount)},
	}
	pdf.Ln(4)
	for _, row := range summary {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(140, 8, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(30, 8, row[1], "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(140, 10, "Grand Total:", "", 0, "L", false, 0, "")
	pdf.CellFormat(30, 10, FormatMoney(order.TotalAmount), "", 1, "R", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 12)
	pdf.Cell(0, 10, "Thank you for shopping with ScentSphere!")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
