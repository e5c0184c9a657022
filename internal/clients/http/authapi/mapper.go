package authapi

import (
	"fmt"
	"strings"

	sessiondomain "github.com/Apurer/foodio-storefront/internal/domains/session/domain"
	sessionports "github.com/Apurer/foodio-storefront/internal/domains/session/ports"
)

// knownUserKeys are lifted into typed Identity fields; everything else lands in Attributes.
var knownUserKeys = map[string]struct{}{
	"_id": {}, "id": {}, "name": {}, "email": {}, "isVerified": {}, "verified": {}, "addresses": {},
}

func (r authResponse) toResult() *sessionports.AuthResult {
	return &sessionports.AuthResult{
		Identity: toIdentity(r.User),
		Message:  r.Message,
		Token:    strings.TrimSpace(r.Token),
	}
}

func toIdentity(user map[string]any) *sessiondomain.Identity {
	if len(user) == 0 {
		return nil
	}
	identity := &sessiondomain.Identity{
		ID:    firstString(user, "_id", "id"),
		Name:  firstString(user, "name"),
		Email: firstString(user, "email"),
	}
	if verified, ok := user["isVerified"].(bool); ok {
		identity.Verified = verified
	} else if verified, ok := user["verified"].(bool); ok {
		identity.Verified = verified
	}
	if list, ok := user["addresses"].([]any); ok {
		for _, item := range list {
			if fields, ok := item.(map[string]any); ok {
				identity.Addresses = append(identity.Addresses, toAddress(fields))
			}
		}
	}
	for key, value := range user {
		if _, known := knownUserKeys[key]; known {
			continue
		}
		if identity.Attributes == nil {
			identity.Attributes = map[string]any{}
		}
		identity.Attributes[key] = value
	}
	return identity
}

func toAddress(fields map[string]any) sessiondomain.Address {
	return sessiondomain.Address{
		Label:      firstString(fields, "label"),
		Line1:      firstString(fields, "line1", "street"),
		Line2:      firstString(fields, "line2"),
		City:       firstString(fields, "city"),
		State:      firstString(fields, "state"),
		PostalCode: firstString(fields, "postalCode", "pincode", "zip"),
		Country:    firstString(fields, "country"),
		Phone:      firstString(fields, "phone"),
	}
}

func fromAddress(address sessiondomain.Address) addressPayload {
	return addressPayload{
		Label:      address.Label,
		Line1:      address.Line1,
		Line2:      address.Line2,
		City:       address.City,
		State:      address.State,
		PostalCode: address.PostalCode,
		Country:    address.Country,
		Phone:      address.Phone,
	}
}

func firstString(fields map[string]any, keys ...string) string {
	for _, key := range keys {
		switch v := fields[key].(type) {
		case string:
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
		case float64:
			return fmt.Sprintf("%v", v)
		}
	}
	return ""
}
