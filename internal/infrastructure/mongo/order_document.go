package mongo

import (
	"strconv"
	"strings"
	"time"

	"furniture-admin/internal/domain/aggregate"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// orderDocument is an order as the store backend persists it. Nested values
// stay raw so a malformed field degrades instead of failing the decode.
type orderDocument struct {
	ID               bson.RawValue `bson:"_id"`
	OrderID          bson.RawValue `bson:"orderId"`
	CreatedAt        bson.RawValue `bson:"createdAt"`
	Status           bson.RawValue `bson:"status"`
	PaymentMethod    bson.RawValue `bson:"paymentMethod"`
	PaymentBreakdown bson.RawValue `bson:"paymentBreakdown"`
	Products         bson.RawValue `bson:"products"`
	UserAddress      bson.RawValue `bson:"userAddress"`
}

type breakdownDocument struct {
	ItemsTotal aggregate.Numeric `bson:"itemsTotal"`
	Tax        aggregate.Numeric `bson:"tax"`
	Shipping   aggregate.Numeric `bson:"shipping"`
	Discount   aggregate.Numeric `bson:"discount"`
	Total      aggregate.Numeric `bson:"total"`
}

type lineItemDocument struct {
	Product  bson.RawValue     `bson:"product"`
	Price    aggregate.Numeric `bson:"price"`
	Quantity aggregate.Numeric `bson:"quantity"`
}

type productDocument struct {
	ID       bson.RawValue     `bson:"_id"`
	Name     string            `bson:"name"`
	ImageURL string            `bson:"imageUrl"`
	Price    aggregate.Numeric `bson:"price"`
}

type addressDocument struct {
	FullName string `bson:"fullName"`
	Flat     string `bson:"flat"`
	Area     string `bson:"area"`
	City     string `bson:"city"`
	Pincode  string `bson:"pincode"`
	State    string `bson:"state"`
	Phone    string `bson:"phone"`
}

func (d orderDocument) toOrder() aggregate.Order {
	order := aggregate.Order{
		ID:            idString(d.ID),
		OrderID:       scalarString(d.OrderID),
		CreatedAt:     getInstant(d.CreatedAt),
		Status:        aggregate.OrderStatus(scalarString(d.Status)),
		PaymentMethod: scalarString(d.PaymentMethod),
	}

	var breakdown breakdownDocument
	if d.PaymentBreakdown.Type == bsontype.EmbeddedDocument && d.PaymentBreakdown.Unmarshal(&breakdown) == nil {
		order.PaymentBreakdown = &aggregate.PaymentBreakdown{
			ItemsTotal: breakdown.ItemsTotal,
			Tax:        breakdown.Tax,
			Shipping:   breakdown.Shipping,
			Discount:   breakdown.Discount,
			Total:      breakdown.Total,
		}
	}

	if d.Products.Type == bsontype.Array {
		values, err := d.Products.Array().Values()
		if err == nil {
			for _, v := range values {
				var item lineItemDocument
				if v.Type != bsontype.EmbeddedDocument || v.Unmarshal(&item) != nil {
					continue
				}
				order.Products = append(order.Products, item.toLineItem())
			}
		}
	}

	var address addressDocument
	if d.UserAddress.Type == bsontype.EmbeddedDocument && d.UserAddress.Unmarshal(&address) == nil {
		order.UserAddress = &aggregate.Address{
			FullName: address.FullName,
			Flat:     address.Flat,
			Area:     address.Area,
			City:     address.City,
			Pincode:  address.Pincode,
			State:    address.State,
			Phone:    address.Phone,
		}
	}

	return order
}

func (d lineItemDocument) toLineItem() aggregate.LineItem {
	item := aggregate.LineItem{Price: d.Price, Quantity: d.Quantity}

	switch d.Product.Type {
	case bsontype.EmbeddedDocument:
		var product productDocument
		if d.Product.Unmarshal(&product) == nil {
			item.Product = &aggregate.ProductRef{
				ID:       idString(product.ID),
				Name:     product.Name,
				ImageURL: product.ImageURL,
				Price:    product.Price,
			}
		}
	case bsontype.ObjectID, bsontype.String:
		if id := idString(d.Product); id != "" {
			item.Product = &aggregate.ProductRef{ID: id}
		}
	}

	return item
}

// idString renders ObjectIDs as hex and other scalar ids as text
func idString(v bson.RawValue) string {
	if oid, ok := v.ObjectIDOK(); ok {
		return oid.Hex()
	}
	return scalarString(v)
}

// scalarString reads strings and numbers as text. Other types yield "".
func scalarString(v bson.RawValue) string {
	switch v.Type {
	case bsontype.String:
		s, _ := v.StringValueOK()
		return s
	case bsontype.Int32:
		i, _ := v.Int32OK()
		return strconv.FormatInt(int64(i), 10)
	case bsontype.Int64:
		i, _ := v.Int64OK()
		return strconv.FormatInt(i, 10)
	case bsontype.Double:
		f, _ := v.DoubleOK()
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return ""
}

// idFilter matches either the store id or the business order id
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"$or": bson.A{bson.M{"_id": oid}, bson.M{"orderId": id}}}
	}
	return bson.M{"$or": bson.A{bson.M{"_id": id}, bson.M{"orderId": id}}}
}

// getInstant reads BSON dates, ISO strings and epoch milliseconds
func getInstant(v bson.RawValue) time.Time {
	if dt, ok := v.DateTimeOK(); ok {
		return time.UnixMilli(dt)
	}
	if ts, _, ok := v.TimestampOK(); ok {
		return time.Unix(int64(ts), 0)
	}
	if ms, ok := v.Int64OK(); ok {
		return time.UnixMilli(ms)
	}
	if s, ok := v.StringValueOK(); ok {
		s = strings.TrimSpace(s)
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}
