package resource

import (
	"github.com/nvellon/hal"

	"boscoin.io/roster/lib/common"
)

type Resource interface {
	LinkSelf() string
	Resource() *hal.Resource
}

// Page embeds `Records` under "records". Empty `Next` or `Prev` links are
// left out.
type Page struct {
	Records []Resource
	Self    string
	Next    string
	Prev    string
}

func NewPage(records []Resource, self, next, prev string) *Page {
	return &Page{
		Records: records,
		Self:    self,
		Next:    next,
		Prev:    prev,
	}
}

func (p Page) GetMap() hal.Entry {
	return hal.Entry{
		"count": len(p.Records),
	}
}

func (p Page) Resource() *hal.Resource {
	rs := hal.NewResource(p, p.LinkSelf())

	records := hal.ResourceCollection{}
	for _, r := range p.Records {
		records = append(records, r.Resource())
	}
	rs.EmbedCollection("records", records)

	for rel, href := range map[string]string{"next": p.Next, "prev": p.Prev} {
		if len(href) > 0 {
			rs.AddLink(hal.Relation(rel), hal.NewLink(href))
		}
	}

	return rs
}

func (p Page) LinkSelf() string {
	return p.Self
}

func (p Page) MarshalJSON() ([]byte, error) {
	return common.JSONMarshalWithoutEscapeHTML(p.Resource().GetMap())
}
