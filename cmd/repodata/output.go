package main

import (
	"github.com/andaru/repodata/patchxml"
	"github.com/andaru/repodata/pkgxml"
	"github.com/andaru/repodata/repomdxml"
	"github.com/andaru/repodata/updateinfoxml"
)

type indexOut struct {
	Revision     string `json:"revision,omitempty"`
	Type         string `json:"type"`
	Location     string `json:"location"`
	ChecksumType string `json:"checksum-type,omitempty"`
	Checksum     string `json:"checksum,omitempty"`
	Timestamp    int64  `json:"timestamp,omitempty"`
	Size         int64  `json:"size,omitempty"`
	OpenSize     int64  `json:"open-size,omitempty"`
}

func indexOf(md *repomdxml.RepoMd, d *repomdxml.Data) indexOut {
	return indexOut{
		Revision:     md.Revision,
		Type:         d.Type,
		Location:     d.Location,
		ChecksumType: d.ChecksumType,
		Checksum:     d.Checksum,
		Timestamp:    d.Timestamp,
		Size:         d.Size,
		OpenSize:     d.OpenSize,
	}
}

type packageOut struct {
	Name     string   `json:"name"`
	Arch     string   `json:"arch,omitempty"`
	Version  string   `json:"version"`
	NEVRA    string   `json:"nevra"`
	PkgID    string   `json:"pkgid,omitempty"`
	Summary  string   `json:"summary,omitempty"`
	Location string   `json:"location,omitempty"`
	Size     int64    `json:"size,omitempty"`
	License  string   `json:"license,omitempty"`
	Provides []string `json:"provides,omitempty"`
	Requires []string `json:"requires,omitempty"`
}

func packageOf(p *pkgxml.Package) packageOut {
	out := packageOut{
		Name:     p.Name,
		Arch:     p.Arch,
		Version:  p.Version.String(),
		NEVRA:    p.NEVRA(),
		PkgID:    p.PkgID,
		Summary:  p.Summary,
		Location: p.Location,
		Size:     p.PackageSize,
	}
	if f := p.Format; f != nil {
		out.License = f.License
		out.Provides = depStrings(f.Provides)
		out.Requires = depStrings(f.Requires)
	}
	return out
}

func depStrings(deps []*pkgxml.Dependency) []string {
	var out []string
	for _, d := range deps {
		out = append(out, d.String())
	}
	return out
}

type filesOut struct {
	NEVRA string   `json:"nevra"`
	PkgID string   `json:"pkgid,omitempty"`
	Files []string `json:"files"`
	Dirs  []string `json:"dirs,omitempty"`
}

func filesOf(p *pkgxml.Package) filesOut {
	out := filesOut{NEVRA: p.NEVRA(), PkgID: p.PkgID, Files: []string{}}
	for _, f := range p.Files {
		if f.Type == "dir" {
			out.Dirs = append(out.Dirs, f.Path)
			continue
		}
		out.Files = append(out.Files, f.Path)
	}
	return out
}

type updateOut struct {
	ID         string   `json:"id"`
	Type       string   `json:"type,omitempty"`
	Severity   string   `json:"severity,omitempty"`
	Title      string   `json:"title,omitempty"`
	Issued     string   `json:"issued,omitempty"`
	References []string `json:"references,omitempty"`
	Packages   []string `json:"packages,omitempty"`
	Reboot     bool     `json:"reboot-suggested,omitempty"`
}

func updateOf(u *updateinfoxml.Update) updateOut {
	out := updateOut{ID: u.ID, Type: u.Type, Severity: u.Severity, Title: u.Title, Issued: u.Issued}
	for _, r := range u.References {
		out.References = append(out.References, r.ID)
	}
	for _, p := range u.Packages {
		out.Packages = append(out.Packages, p.Filename)
		out.Reboot = out.Reboot || p.RebootSuggested
	}
	return out
}

type patchOut struct {
	ID           string         `json:"id"`
	Location     string         `json:"location"`
	ChecksumType string         `json:"checksum-type,omitempty"`
	Checksum     string         `json:"checksum,omitempty"`
	Descriptor   *descriptorOut `json:"descriptor,omitempty"`
}

type descriptorOut struct {
	Name     string   `json:"name"`
	Version  string   `json:"version,omitempty"`
	Category string   `json:"category,omitempty"`
	Summary  string   `json:"summary,omitempty"`
	Reboot   bool     `json:"reboot-needed,omitempty"`
	Packages []string `json:"packages,omitempty"`
}

func descriptorOf(p *patchxml.Patch) *descriptorOut {
	out := &descriptorOut{
		Name:     p.Name,
		Version:  pkgxml.Version{Ver: p.Version, Rel: p.Release}.String(),
		Category: p.Category,
		Summary:  p.Summary,
		Reboot:   p.RebootNeeded,
	}
	for _, pkg := range p.Packages {
		out.Packages = append(out.Packages, pkg.NEVRA())
	}
	return out
}
