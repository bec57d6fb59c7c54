// Package updateinfoxml binds updateinfo.xml, the advisory catalog of
// an rpm-md repository. Advisories (update elements) are streamed.
package updateinfoxml

import (
	"github.com/andaru/repodata/databind"
	"github.com/andaru/repodata/mderr"
)

// Updates is the root of an updateinfo document.
type Updates struct {
	databind.Element
}

// AddChild retains updates, which reach the root only when the whole
// document is bound with Parse.
func (u *Updates) AddChild(c databind.Record) error {
	if _, ok := c.(*Update); !ok {
		return u.UnknownChild(c)
	}
	u.Retain(c)
	return nil
}

// Entries returns the updates retained by Parse.
func (u *Updates) Entries() []*Update {
	var out []*Update
	for _, c := range u.Children("update") {
		out = append(out, c.(*Update))
	}
	return out
}

// Update is an advisory.
type Update struct {
	databind.Element

	Status  string
	From    string
	Type    string
	Version string

	ID          string
	Title       string
	Release     string
	Description string
	Summary     string
	Severity    string
	Solution    string
	Rights      string
	Issued      string
	Updated     string

	References []*Reference
	// Collection is the short name of the package collection.
	Collection     string
	CollectionName string
	Packages       []*Package
}

func (u *Update) BindAttr(a databind.Attr) error {
	switch a.Name.String() {
	case "status":
		u.Status = a.Value
	case "from":
		u.From = a.Value
	case "type":
		u.Type = a.Value
	case "version":
		u.Version = a.Value
	default:
		return u.UnknownAttr(a)
	}
	return nil
}

func (u *Update) AddChild(c databind.Record) error {
	switch c.Elem().QName() {
	case "id":
		u.ID = databind.StringOf(c)
	case "title":
		u.Title = databind.StringOf(c)
	case "release":
		u.Release = databind.StringOf(c)
	case "description":
		u.Description = databind.StringOf(c)
	case "summary":
		u.Summary = databind.StringOf(c)
	case "severity":
		u.Severity = databind.StringOf(c)
	case "solution":
		u.Solution = databind.StringOf(c)
	case "rights":
		u.Rights = databind.StringOf(c)
	case "issued":
		u.Issued = c.Elem().AttrValue("date")
	case "updated":
		u.Updated = c.Elem().AttrValue("date")
	case "references":
		for _, r := range c.Elem().Children("reference") {
			if ref, ok := r.(*Reference); ok {
				u.References = append(u.References, ref)
			}
		}
	case "pkglist":
		l, ok := c.(*pkgList)
		if !ok {
			return u.UnknownChild(c)
		}
		coll := l.collection
		u.Collection = coll.Short
		u.CollectionName = coll.Name
		u.Packages = coll.Packages
	default:
		return u.UnknownChild(c)
	}
	return nil
}

func (u *Update) Finalize() error {
	if u.ID == "" {
		return mderr.MissingElement("id", u.QName(), mderr.WithLine(u.Line, 0))
	}
	return nil
}

// Reference is a link to further information about an update, such
// as a bug or CVE.
type Reference struct {
	databind.Element
	Href  string
	ID    string
	Title string
	Type  string
}

func (r *Reference) BindAttr(a databind.Attr) error {
	switch a.Name.String() {
	case "href":
		r.Href = a.Value
	case "id":
		r.ID = a.Value
	case "title":
		r.Title = a.Value
	case "type":
		r.Type = a.Value
	default:
		return r.UnknownAttr(a)
	}
	return nil
}

type references struct {
	databind.Element
}

func (r *references) AddChild(c databind.Record) error {
	if _, ok := c.(*Reference); !ok {
		return r.UnknownChild(c)
	}
	r.Retain(c)
	return nil
}

// pkgList holds exactly one collection.
type pkgList struct {
	databind.Element
	collection *collection
}

func (l *pkgList) AddChild(c databind.Record) error {
	coll, ok := c.(*collection)
	if !ok || l.collection != nil {
		return l.UnknownChild(c)
	}
	l.collection = coll
	return nil
}

func (l *pkgList) Finalize() error {
	if l.collection == nil {
		return mderr.MissingElement("collection", l.QName(), mderr.WithLine(l.Line, 0))
	}
	return nil
}

type collection struct {
	databind.Element
	Short    string
	Name     string
	Packages []*Package
}

func (c *collection) BindAttr(a databind.Attr) error {
	if a.Name.String() != "short" {
		return c.UnknownAttr(a)
	}
	c.Short = a.Value
	return nil
}

func (c *collection) AddChild(child databind.Record) error {
	switch child.Elem().QName() {
	case "name":
		c.Name = databind.StringOf(child)
	case "package":
		p, ok := child.(*Package)
		if !ok {
			return c.UnknownChild(child)
		}
		c.Packages = append(c.Packages, p)
	default:
		return c.UnknownChild(child)
	}
	return nil
}

// Package is a package fixed by an update.
type Package struct {
	databind.Element

	Name    string
	Arch    string
	Epoch   string
	Version string
	Release string
	Src     string

	Filename string
	SumType  string
	Sum      string

	RebootSuggested  bool
	RestartSuggested bool
	ReloginSuggested bool
}

func (p *Package) BindAttr(a databind.Attr) error {
	switch a.Name.String() {
	case "name":
		p.Name = a.Value
	case "arch":
		p.Arch = a.Value
	case "epoch":
		p.Epoch = a.Value
	case "version":
		p.Version = a.Value
	case "release":
		p.Release = a.Value
	case "src":
		p.Src = a.Value
	default:
		return p.UnknownAttr(a)
	}
	return nil
}

func (p *Package) AddChild(c databind.Record) error {
	switch c.Elem().QName() {
	case "filename":
		p.Filename = databind.StringOf(c)
	case "sum":
		p.Sum = databind.StringOf(c)
		p.SumType = c.Elem().AttrValue("type")
	case "reboot_suggested":
		p.RebootSuggested = databind.BoolOf(c)
	case "restart_suggested":
		p.RestartSuggested = databind.BoolOf(c)
	case "relogin_suggested":
		p.ReloginSuggested = databind.BoolOf(c)
	default:
		return p.UnknownChild(c)
	}
	return nil
}

// Schema returns the updateinfo document schema.
func Schema() *databind.Schema {
	reg := databind.NewRegistry("updateinfo").
		Root("updates").
		Register("updates", func() databind.Record { return &Updates{} }).
		Register("update", func() databind.Record { return &Update{} }, databind.Yield()).
		Register("issued", databind.NewPresence).
		Register("updated", databind.NewPresence).
		Register("references", func() databind.Record { return &references{} }).
		Register("reference", func() databind.Record { return &Reference{} }).
		Register("pkglist", func() databind.Record { return &pkgList{} }).
		Register("collection", func() databind.Record { return &collection{} }).
		Register("package", func() databind.Record { return &Package{} }).
		Register("reboot_suggested", databind.NewBool).
		Register("restart_suggested", databind.NewBool).
		Register("relogin_suggested", databind.NewBool)
	for _, name := range []string{
		"id", "title", "release", "description", "summary", "severity",
		"solution", "rights", "name", "filename", "sum",
	} {
		reg.Register(name, databind.NewString)
	}
	return &databind.Schema{Name: "updateinfo", Registry: reg}
}
