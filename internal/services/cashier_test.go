package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nadir9094-cmyk/NaderProductsApp/internal/apperr"
	"github.com/nadir9094-cmyk/NaderProductsApp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInvoiceAdjustsStock(t *testing.T) {
	svc, db := newCashier(t)
	ctx := context.Background()
	p := seedProduct(t, db, "6281000000017", 10, 2)

	id, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{
		GrandTotal: dec("15"),
		Items: []InvoiceItemInput{
			{Barcode: "6281000000017", Quantity: dec("3"), Price: dec("5")},
		},
	})
	require.NoError(t, err)

	inv, err := svc.Invoice(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "cash", inv.PaymentMethod)
	assert.Equal(t, fixedNow, inv.InvoiceDate)
	assertDecimal(t, "0", inv.ReturnTotal)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "product 6281000000017", inv.Items[0].ProductName, "name defaults to the product's")
	assert.Equal(t, id, inv.Items[0].InvoiceID)

	got := reloadProduct(t, db, p.ID)
	assert.Equal(t, 7, got.Quantity)
	assert.Equal(t, 5, got.SoldQuantity)
}

func TestCreateInvoiceRoundsFractionalQuantity(t *testing.T) {
	svc, db := newCashier(t)
	p := seedProduct(t, db, "W1", 10, 0)

	_, err := svc.CreateInvoice(context.Background(), CreateInvoiceRequest{
		Items: []InvoiceItemInput{{ProductName: "cheese", Barcode: "W1", Quantity: dec("1.75"), Price: dec("40")}},
	})
	require.NoError(t, err)

	got := reloadProduct(t, db, p.ID)
	assert.Equal(t, 8, got.Quantity)
	assert.Equal(t, 2, got.SoldQuantity)
}

func TestCreateInvoiceAllowsNegativeStock(t *testing.T) {
	svc, db := newCashier(t)
	p := seedProduct(t, db, "B1", 1, 0)

	_, err := svc.CreateInvoice(context.Background(), CreateInvoiceRequest{
		Items: []InvoiceItemInput{{Barcode: "B1", Quantity: dec("3"), Price: dec("1")}},
	})
	require.NoError(t, err)
	assert.Equal(t, -2, reloadProduct(t, db, p.ID).Quantity)
}

func TestCreateInvoiceUnknownBarcode(t *testing.T) {
	svc, db := newCashier(t)
	ctx := context.Background()
	p := seedProduct(t, db, "KNOWN", 10, 0)

	id, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{
		PaymentMethod: "card",
		Items: []InvoiceItemInput{
			{ProductName: "Loose item", Barcode: "MISSING", Quantity: dec("2"), Price: dec("4")},
		},
	})
	require.NoError(t, err)

	items, err := svc.Items(ctx, id)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Loose item", items[0].ProductName)

	got := reloadProduct(t, db, p.ID)
	assert.Equal(t, 10, got.Quantity)
	assert.Equal(t, 0, got.SoldQuantity)
}

func TestCreateInvoiceRollsBack(t *testing.T) {
	svc, db := newCashier(t)
	ctx := context.Background()
	p := seedProduct(t, db, "B1", 10, 0)
	db.FailOn["SaveCashierItem"] = errors.New("disk full")

	_, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{
		Items: []InvoiceItemInput{{Barcode: "B1", Quantity: dec("2"), Price: dec("1")}},
	})
	require.Error(t, err)

	all, err := svc.Report(ctx, ReportQuery{})
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, 10, reloadProduct(t, db, p.ID).Quantity)
}

func createSale(t *testing.T, svc *CashierService, items ...InvoiceItemInput) (uint, []uint) {
	t.Helper()
	ctx := context.Background()
	id, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{Items: items})
	require.NoError(t, err)
	lines, err := svc.Items(ctx, id)
	require.NoError(t, err)
	ids := make([]uint, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ID)
	}
	return id, ids
}

func TestCreateInvoiceRejectsBadLines(t *testing.T) {
	svc, db := newCashier(t)
	ctx := context.Background()
	p := seedProduct(t, db, "B1", 10, 0)

	cases := map[string]InvoiceItemInput{
		"zero quantity":     {Barcode: "B1", Quantity: dec("0"), Price: dec("1")},
		"negative quantity": {Barcode: "B1", Quantity: dec("-2"), Price: dec("1")},
		"negative price":    {Barcode: "B1", Quantity: dec("2"), Price: dec("-3")},
		"negative discount": {Barcode: "B1", Quantity: dec("2"), Price: dec("3"), Discount: dec("-1")},
		"discount too big":  {Barcode: "B1", Quantity: dec("2"), Price: dec("5"), Discount: dec("20")},
	}
	for name, line := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{
				Items: []InvoiceItemInput{{Quantity: dec("1"), Price: dec("1")}, line},
			})
			var ve *apperr.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, err.Error(), "items[1]")
		})
	}

	got := reloadProduct(t, db, p.ID)
	assert.Equal(t, 10, got.Quantity, "rejected invoices leave stock alone")
	report, err := svc.Report(ctx, ReportQuery{})
	require.NoError(t, err)
	assert.Empty(t, report)

	_, err = svc.CreateInvoice(ctx, CreateInvoiceRequest{
		Items: []InvoiceItemInput{{Quantity: dec("2"), Price: dec("5"), Discount: dec("10")}},
	})
	require.NoError(t, err, "a discount equal to the line total is allowed")
}

func TestProcessReturnNeverLowersReturnTotal(t *testing.T) {
	svc, db := newCashier(t)
	ctx := context.Background()

	invID, good := createSale(t, svc, InvoiceItemInput{Quantity: dec("2"), Price: dec("5")})

	// rows written before line checks existed
	legacy := []*models.CashierInvoiceItem{
		{InvoiceID: invID, Quantity: dec("2"), Price: dec("5"), Discount: dec("20")},
		{InvoiceID: invID, Quantity: dec("2"), Price: dec("-3")},
	}
	for _, item := range legacy {
		require.NoError(t, db.SaveCashierItem(ctx, item))
	}

	first, err := svc.ProcessReturn(ctx, invID, ReturnRequest{Items: []ReturnItem{{ItemID: legacy[0].ID, Quantity: dec("1")}}})
	require.NoError(t, err)
	assertDecimal(t, "0", first)

	second, err := svc.ProcessReturn(ctx, invID, ReturnRequest{Items: []ReturnItem{
		{ItemID: legacy[1].ID, Quantity: dec("1")},
		{ItemID: good[0], Quantity: dec("1")},
	}})
	require.NoError(t, err)
	assertDecimal(t, "5", second)

	withReturn, err := svc.Report(ctx, ReportQuery{ReturnFilter: "withReturn"})
	require.NoError(t, err)
	require.Len(t, withReturn, 1)
	assert.Equal(t, invID, withReturn[0].ID)
}

func TestProcessReturnProportionalDiscount(t *testing.T) {
	svc, _ := newCashier(t)
	ctx := context.Background()
	invID, lines := createSale(t, svc, InvoiceItemInput{ProductName: "tea", Quantity: dec("10"), Price: dec("5"), Discount: dec("10")})

	total, err := svc.ProcessReturn(ctx, invID, ReturnRequest{Items: []ReturnItem{{ItemID: lines[0], Quantity: dec("4")}}})
	require.NoError(t, err)
	assertDecimal(t, "16", total)

	items, err := svc.Items(ctx, invID)
	require.NoError(t, err)
	assertDecimal(t, "6", items[0].Quantity)
}

func TestProcessReturnRestocks(t *testing.T) {
	svc, db := newCashier(t)
	ctx := context.Background()
	invID, lines := createSale(t, svc, InvoiceItemInput{ProductName: "tea", Barcode: "T1", Quantity: dec("5"), Price: dec("2")})
	p := seedProduct(t, db, "T1", 5, 20)

	_, err := svc.ProcessReturn(ctx, invID, ReturnRequest{Items: []ReturnItem{{ItemID: lines[0], Quantity: dec("3")}}})
	require.NoError(t, err)

	got := reloadProduct(t, db, p.ID)
	assert.Equal(t, 8, got.Quantity)
	assert.Equal(t, 17, got.SoldQuantity)
}

func TestProcessReturnSoldQuantityFloor(t *testing.T) {
	svc, db := newCashier(t)
	ctx := context.Background()
	invID, lines := createSale(t, svc, InvoiceItemInput{Barcode: "T1", Quantity: dec("5"), Price: dec("2")})
	p := seedProduct(t, db, "T1", 0, 1)

	_, err := svc.ProcessReturn(ctx, invID, ReturnRequest{Items: []ReturnItem{{ItemID: lines[0], Quantity: dec("4")}}})
	require.NoError(t, err)

	got := reloadProduct(t, db, p.ID)
	assert.Equal(t, 4, got.Quantity)
	assert.Equal(t, 0, got.SoldQuantity)
}

func TestProcessReturnClampsAndAccumulates(t *testing.T) {
	svc, _ := newCashier(t)
	ctx := context.Background()
	invID, lines := createSale(t, svc, InvoiceItemInput{Quantity: dec("3"), Price: dec("10")})
	req := ReturnRequest{Items: []ReturnItem{{ItemID: lines[0], Quantity: dec("2")}}}

	first, err := svc.ProcessReturn(ctx, invID, req)
	require.NoError(t, err)
	assertDecimal(t, "20", first)

	// only 1 unit is left on the line
	second, err := svc.ProcessReturn(ctx, invID, req)
	require.NoError(t, err)
	assertDecimal(t, "30", second)

	third, err := svc.ProcessReturn(ctx, invID, req)
	require.NoError(t, err)
	assertDecimal(t, "30", third)
	assert.True(t, third.GreaterThanOrEqual(second))

	items, err := svc.Items(ctx, invID)
	require.NoError(t, err)
	assertDecimal(t, "0", items[0].Quantity)
}

func TestProcessReturnSkipsInvalidLines(t *testing.T) {
	svc, _ := newCashier(t)
	ctx := context.Background()
	invID, lines := createSale(t, svc, InvoiceItemInput{Quantity: dec("2"), Price: dec("10")})
	_, otherLines := createSale(t, svc, InvoiceItemInput{Quantity: dec("2"), Price: dec("99")})

	total, err := svc.ProcessReturn(ctx, invID, ReturnRequest{Items: []ReturnItem{
		{ItemID: 9999, Quantity: dec("1")},
		{ItemID: otherLines[0], Quantity: dec("1")},
		{ItemID: lines[0], Quantity: dec("0")},
		{ItemID: lines[0], Quantity: dec("-1")},
		{ItemID: lines[0], Quantity: dec("1")},
	}})
	require.NoError(t, err)
	assertDecimal(t, "10", total)
}

func TestProcessReturnRoundsTheSum(t *testing.T) {
	svc, _ := newCashier(t)
	ctx := context.Background()
	// each line refunds 1.005; rounding each line first would give 2.00
	invID, lines := createSale(t, svc,
		InvoiceItemInput{Quantity: dec("1"), Price: dec("1.005")},
		InvoiceItemInput{Quantity: dec("1"), Price: dec("1.005")},
	)

	total, err := svc.ProcessReturn(ctx, invID, ReturnRequest{Items: []ReturnItem{
		{ItemID: lines[0], Quantity: dec("1")},
		{ItemID: lines[1], Quantity: dec("1")},
	}})
	require.NoError(t, err)
	assertDecimal(t, "2.01", total)
}

func TestProcessReturnAppendsNote(t *testing.T) {
	svc, _ := newCashier(t)
	ctx := context.Background()
	id, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{
		Notes: "first sale",
		Items: []InvoiceItemInput{{Quantity: dec("5"), Price: dec("1")}},
	})
	require.NoError(t, err)
	items, err := svc.Items(ctx, id)
	require.NoError(t, err)

	_, err = svc.ProcessReturn(ctx, id, ReturnRequest{
		Items: []ReturnItem{{ItemID: items[0].ID, Quantity: dec("1")}},
		Note:  "damaged",
	})
	require.NoError(t, err)

	inv, err := svc.Invoice(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "first sale | damaged", inv.Notes)
}

func TestProcessReturnErrors(t *testing.T) {
	svc, _ := newCashier(t)
	ctx := context.Background()

	_, err := svc.ProcessReturn(ctx, 42, ReturnRequest{})
	assert.True(t, apperr.IsValidation(err), "empty list is checked first")

	_, err = svc.ProcessReturn(ctx, 42, ReturnRequest{Items: []ReturnItem{{ItemID: 1, Quantity: dec("1")}}})
	assert.True(t, apperr.IsNotFound(err))
}

func TestProcessReturnRollsBack(t *testing.T) {
	svc, db := newCashier(t)
	ctx := context.Background()
	invID, lines := createSale(t, svc, InvoiceItemInput{Barcode: "T1", Quantity: dec("5"), Price: dec("2")})
	p := seedProduct(t, db, "T1", 5, 5)
	db.FailOn["SaveCashierInvoice"] = errors.New("connection reset")

	_, err := svc.ProcessReturn(ctx, invID, ReturnRequest{Items: []ReturnItem{{ItemID: lines[0], Quantity: dec("2")}}})
	require.Error(t, err)

	items, err := svc.Items(ctx, invID)
	require.NoError(t, err)
	assertDecimal(t, "5", items[0].Quantity)
	assert.Equal(t, 5, reloadProduct(t, db, p.ID).Quantity)
}

func TestDeleteInvoice(t *testing.T) {
	svc, _ := newCashier(t)
	ctx := context.Background()
	invID, _ := createSale(t, svc, InvoiceItemInput{Quantity: dec("1"), Price: dec("1")})

	require.NoError(t, svc.DeleteInvoice(ctx, invID))
	items, err := svc.Items(ctx, invID)
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.True(t, apperr.IsNotFound(svc.DeleteInvoice(ctx, invID)))
}

func TestReport(t *testing.T) {
	svc, _ := newCashier(t)
	ctx := context.Background()
	day := func(d int) *time.Time {
		v := time.Date(2025, 3, d, 15, 0, 0, 0, time.UTC)
		return &v
	}

	a, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{InvoiceDate: day(1), Items: []InvoiceItemInput{{Quantity: dec("2"), Price: dec("3")}}})
	require.NoError(t, err)
	b, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{InvoiceDate: day(2), PaymentMethod: "card", IsSuspended: true})
	require.NoError(t, err)
	c, err := svc.CreateInvoice(ctx, CreateInvoiceRequest{InvoiceDate: day(3)})
	require.NoError(t, err)

	items, err := svc.Items(ctx, a)
	require.NoError(t, err)
	_, err = svc.ProcessReturn(ctx, a, ReturnRequest{Items: []ReturnItem{{ItemID: items[0].ID, Quantity: dec("1")}}})
	require.NoError(t, err)

	ids := func(q ReportQuery) []uint {
		t.Helper()
		rows, err := svc.Report(ctx, q)
		require.NoError(t, err)
		out := []uint{}
		for _, r := range rows {
			out = append(out, r.ID)
		}
		return out
	}

	assert.Equal(t, []uint{c, b, a}, ids(ReportQuery{}))
	assert.Equal(t, []uint{a}, ids(ReportQuery{ReturnFilter: "withReturn"}))
	assert.Equal(t, []uint{c, b}, ids(ReportQuery{ReturnFilter: "withoutReturn"}))
	assert.Equal(t, []uint{c, b, a}, ids(ReportQuery{ReturnFilter: "all", Status: "all"}))
	assert.Equal(t, []uint{b}, ids(ReportQuery{Status: "suspended"}))
	assert.Equal(t, []uint{c, a}, ids(ReportQuery{Status: "normal"}))
	assert.Equal(t, []uint{b}, ids(ReportQuery{PaymentMethod: "card"}))
	assert.Equal(t, []uint{b}, ids(ReportQuery{InvoiceID: &b}))
	assert.Equal(t, []uint{b, a}, ids(ReportQuery{From: "2025-03-01", To: "2025-03-02"}))
	assert.Equal(t, []uint{c}, ids(ReportQuery{From: "2025-03-02T16:00:00Z"}))

	_, err = svc.Report(ctx, ReportQuery{Status: "parked"})
	assert.True(t, apperr.IsValidation(err))
	_, err = svc.Report(ctx, ReportQuery{From: "yesterday"})
	assert.True(t, apperr.IsValidation(err))
}
