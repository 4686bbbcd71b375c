package bag

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// Nummeraanduiding is the part of a BAG address the successor match cares
// about. Two verblijfsobjecten are the same physical address when postcode,
// huisnummer and huisletter all agree.
type Nummeraanduiding struct {
	Postcode   string `json:"postcode"`
	Huisnummer int    `json:"huisnummer"`
	Huisletter string `json:"huisletter"`
}

type pandenResponse struct {
	Embedded struct {
		Panden []struct {
			Pand struct {
				Identificatie string `json:"identificatie"`
			} `json:"pand"`
		} `json:"panden"`
	} `json:"_embedded"`
}

type verblijfsobjectenResponse struct {
	Embedded struct {
		Verblijfsobjecten []verblijfsobjectEntry `json:"verblijfsobjecten"`
	} `json:"_embedded"`
}

type verblijfsobjectEntry struct {
	Verblijfsobject struct {
		Identificatie string `json:"identificatie"`
		Status        string `json:"status"`
	} `json:"verblijfsobject"`
	Embedded struct {
		HeeftAlsHoofdAdres struct {
			Nummeraanduiding Nummeraanduiding `json:"nummeraanduiding"`
		} `json:"heeftAlsHoofdAdres"`
	} `json:"_embedded"`
}

// FindSuccessor looks up the currently valid verblijfsobject identifier for
// the same physical address as the (historical) identifier. It walks the
// panden the identifier is registered on, compares hoofdadressen and returns
// the first other verblijfsobject at the identical address. Empty string
// means the registry knows no successor; that is a valid outcome.
func (c *Client) FindSuccessor(ctx context.Context, origID string) (string, error) {
	var panden pandenResponse
	err := c.getJSON(ctx, "/panden", url.Values{
		"adresseerbaarObjectIdentificatie": {origID},
	}, &panden)
	if errors.Is(err, errNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("panden for verblijfsobject %s: %w", origID, err)
	}

	for _, p := range panden.Embedded.Panden {
		var vobs verblijfsobjectenResponse
		err := c.getJSON(ctx, "/verblijfsobjecten", url.Values{
			"expand":            {"true"},
			"pandIdentificatie": {p.Pand.Identificatie},
		}, &vobs)
		if errors.Is(err, errNotFound) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("verblijfsobjecten for pand %s: %w", p.Pand.Identificatie, err)
		}

		entries := vobs.Embedded.Verblijfsobjecten

		var origineel *Nummeraanduiding
		for i := range entries {
			if entries[i].Verblijfsobject.Identificatie == origID {
				origineel = &entries[i].Embedded.HeeftAlsHoofdAdres.Nummeraanduiding
				break
			}
		}
		if origineel == nil {
			// The original unit has no address on this pand; nothing
			// to compare against.
			continue
		}

		for i := range entries {
			e := &entries[i]
			if e.Verblijfsobject.Identificatie == origID {
				continue
			}
			if sameAddress(e.Embedded.HeeftAlsHoofdAdres.Nummeraanduiding, *origineel) {
				return e.Verblijfsobject.Identificatie, nil
			}
		}
	}
	return "", nil
}

func sameAddress(a, b Nummeraanduiding) bool {
	return a.Postcode == b.Postcode &&
		a.Huisnummer == b.Huisnummer &&
		a.Huisletter == b.Huisletter
}
