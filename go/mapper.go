package storefrontserver

import (
	cartdomain "github.com/Apurer/foodio-storefront/internal/domains/cart/domain"
	checkoutdomain "github.com/Apurer/foodio-storefront/internal/domains/checkout/domain"
	sessiondomain "github.com/Apurer/foodio-storefront/internal/domains/session/domain"
	sessionports "github.com/Apurer/foodio-storefront/internal/domains/session/ports"
)

func toDomainAddress(a Address) sessiondomain.Address {
	return sessiondomain.Address{
		Label:      a.Label,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
	}
}

func fromDomainAddress(a sessiondomain.Address) Address {
	return Address{
		Label:      a.Label,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
	}
}

func fromDomainSession(s *sessiondomain.Session, inFlight func(sessionports.Operation) bool) Session {
	out := Session{InFlight: []string{}}
	if s == nil {
		out.Status = string(sessiondomain.StatusAnonymous)
		return out
	}
	out.Status = string(s.Status)
	out.Authenticated = s.IsAuthenticated()
	out.PendingEmail = s.PendingEmail
	out.LastError = s.LastError
	if s.Identity != nil {
		user := &User{
			ID:        s.Identity.ID,
			Name:      s.Identity.Name,
			Email:     s.Identity.Email,
			Verified:  s.Identity.Verified,
			Addresses: make([]Address, 0, len(s.Identity.Addresses)),
		}
		for _, a := range s.Identity.Addresses {
			user.Addresses = append(user.Addresses, fromDomainAddress(a))
		}
		out.User = user
	}
	if inFlight != nil {
		for _, op := range sessionports.Operations {
			if inFlight(op) {
				out.InFlight = append(out.InFlight, string(op))
			}
		}
	}
	return out
}

func fromDomainLines(lines []cartdomain.Line) []CartLine {
	out := make([]CartLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, CartLine{
			ItemID:    line.ItemID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice.StringFixed(2),
			Quantity:  line.Quantity,
			LineTotal: line.Total().StringFixed(2),
		})
	}
	return out
}

func fromDomainTotals(t cartdomain.Totals) Totals {
	d := t.Display()
	return Totals{
		ItemCount:      d.ItemCount,
		Subtotal:       d.Subtotal,
		DeliveryFee:    d.DeliveryFee,
		Tax:            d.Tax,
		DiscountRate:   d.DiscountRate,
		DiscountAmount: d.DiscountAmount,
		GrandTotal:     d.GrandTotal,
	}
}

func fromDomainCart(snapshot cartdomain.Snapshot, totals cartdomain.Totals) Cart {
	return Cart{
		Lines:     fromDomainLines(snapshot.Lines),
		PromoCode: snapshot.Promotion.Code,
		Totals:    fromDomainTotals(totals),
	}
}

func fromDomainReceipt(r *checkoutdomain.Receipt) Receipt {
	return Receipt{
		HandoffID:  r.HandoffID.String(),
		Reference:  r.Reference,
		Lines:      fromDomainLines(r.Lines),
		PromoCode:  r.PromoCode,
		Totals:     fromDomainTotals(r.Totals),
		CustomerID: r.Customer.ID,
		AcceptedAt: r.AcceptedAt,
	}
}
