/*
Package profile contains core data structures for member profiles and skills.

This file holds the static sample profiles: the fabricated member returned by
the simulated login, and the demo expert directory served on expert pages.
*/
package profile

import "net/url"

// SampleMember returns the fabricated profile issued by the simulated login.
func SampleMember() User {
	return User{
		Name:   "سارة عبدالله",
		Avatar: "https://picsum.photos/seed/sara/100/100",
		Bio:    "خبيرة تسويق رقمي بخبرة 5 سنوات في إدارة الحملات الإعلانية وتحليل البيانات. أسعى لمشاركة معرفتي ومساعدة الآخرين على النمو في هذا المجال المثير.",
		Skills: []Skill{
			{ID: "1", Name: "التسويق عبر وسائل التواصل الاجتماعي", Description: "خبير في بناء استراتيجيات تسويقية فعالة على منصات مثل انستغرام وتويتر."},
			{ID: "2", Name: "تحليل بيانات جوجل", Description: "أستخدم أدوات مثل Google Analytics لتحسين أداء المواقع والحملات."},
		},
	}
}

// NewMember fabricates a fresh profile for a signup. The avatar is seeded
// from the chosen name and the skill list starts empty.
func NewMember(name string) User {
	if name == "" {
		name = "عضو جديد"
	}

	return User{
		Name:   name,
		Avatar: "https://picsum.photos/seed/" + url.PathEscape(name) + "/100/100",
		Bio:    "",
		Skills: []Skill{},
	}
}

// Directory serves the demo expert profiles shown on public expert pages.
type Directory struct {
	experts map[string]User
}

// NewDirectory builds the static expert directory.
func NewDirectory() *Directory {
	return &Directory{
		experts: map[string]User{
			"ahmed": {
				Name:   "أحمد الغامدي",
				Avatar: "https://picsum.photos/seed/ahmed/100/100",
				Bio:    "مصمم جرافيك وشغوف بالفن الرقمي. أمتلك خبرة واسعة في برامج Adobe وأحب تعليم أساسيات التصميم للمبتدئين.",
				Skills: []Skill{
					{ID: "3", Name: "تصميم الجرافيك", Description: "إنشاء هويات بصرية وشعارات احترافية للشركات الناشئة."},
					{ID: "4", Name: "الرسم الرقمي الاحترافي", Description: "الرسم الرقمي باستخدام Procreate و Photoshop لإنشاء لوحات فنية مميزة."},
				},
			},
		},
	}
}

// Lookup returns the expert profile for the given identifier. Unknown
// identifiers resolve to the default demo expert so expert pages always
// render.
func (d *Directory) Lookup(id string) User {
	if expert, ok := d.experts[id]; ok {
		return expert
	}

	return d.experts["ahmed"]
}
