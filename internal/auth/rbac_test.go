package auth_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/endemicwatch/endemic-monitoring/internal/auth"
)

var _ = Describe("RBAC", func() {
	Describe("TierForRole", func() {
		It("maps stored roles to tiers", func() {
			Expect(auth.TierForRole(auth.RoleAdmin)).To(Equal(auth.TierAdmin))
			Expect(auth.TierForRole(auth.RoleHealthProfessional)).To(Equal(auth.TierAuth))
			Expect(auth.TierForRole(auth.RolePublic)).To(Equal(auth.TierPublic))
		})

		It("degrades unknown roles to the public tier", func() {
			Expect(auth.TierForRole("superuser")).To(Equal(auth.TierPublic))
			Expect(auth.TierForRole("")).To(Equal(auth.TierPublic))
		})
	})

	Describe("Authorize", func() {
		Context("public tier", func() {
			It("may read the public surfaces only", func() {
				Expect(auth.Authorize(auth.TierPublic, auth.ResourceVerification, auth.ActionRead)).To(BeTrue())
				Expect(auth.Authorize(auth.TierPublic, auth.ResourcePublicAlerts, auth.ActionRead)).To(BeTrue())
			})

			It("is denied every case operation", func() {
				for _, action := range []auth.Action{auth.ActionList, auth.ActionRead, auth.ActionCreate, auth.ActionUpdate, auth.ActionDelete} {
					Expect(auth.Authorize(auth.TierPublic, auth.ResourceCase, action)).To(BeFalse(), string(action))
				}
			})

			It("is denied the authenticated alert listing", func() {
				Expect(auth.Authorize(auth.TierPublic, auth.ResourceAlert, auth.ActionList)).To(BeFalse())
			})
		})

		Context("auth tier", func() {
			It("may work cases but not delete them", func() {
				Expect(auth.Authorize(auth.TierAuth, auth.ResourceCase, auth.ActionCreate)).To(BeTrue())
				Expect(auth.Authorize(auth.TierAuth, auth.ResourceCase, auth.ActionUpdate)).To(BeTrue())
				Expect(auth.Authorize(auth.TierAuth, auth.ResourceCase, auth.ActionDelete)).To(BeFalse())
			})

			It("may create alerts but not modify them", func() {
				Expect(auth.Authorize(auth.TierAuth, auth.ResourceAlert, auth.ActionCreate)).To(BeTrue())
				Expect(auth.Authorize(auth.TierAuth, auth.ResourceAlert, auth.ActionUpdate)).To(BeFalse())
				Expect(auth.Authorize(auth.TierAuth, auth.ResourceAlert, auth.ActionDelete)).To(BeFalse())
			})

			It("may read the disease registry but not change it", func() {
				Expect(auth.Authorize(auth.TierAuth, auth.ResourceDisease, auth.ActionRead)).To(BeTrue())
				Expect(auth.Authorize(auth.TierAuth, auth.ResourceDisease, auth.ActionCreate)).To(BeFalse())
			})

			It("is denied user administration", func() {
				Expect(auth.Authorize(auth.TierAuth, auth.ResourceUser, auth.ActionList)).To(BeFalse())
			})
		})

		Context("admin tier", func() {
			It("inherits everything below it", func() {
				Expect(auth.Authorize(auth.TierAdmin, auth.ResourceVerification, auth.ActionRead)).To(BeTrue())
				Expect(auth.Authorize(auth.TierAdmin, auth.ResourceCase, auth.ActionCreate)).To(BeTrue())
			})

			It("holds the destructive grants", func() {
				Expect(auth.Authorize(auth.TierAdmin, auth.ResourceCase, auth.ActionDelete)).To(BeTrue())
				Expect(auth.Authorize(auth.TierAdmin, auth.ResourceAlert, auth.ActionDelete)).To(BeTrue())
				Expect(auth.Authorize(auth.TierAdmin, auth.ResourceUser, auth.ActionDelete)).To(BeTrue())
			})
		})

		It("fails closed on unlisted pairs", func() {
			Expect(auth.Authorize(auth.TierAdmin, auth.Resource("unknown"), auth.ActionRead)).To(BeFalse())
			Expect(auth.Authorize(auth.TierAdmin, auth.ResourceVerification, auth.ActionDelete)).To(BeFalse())
		})
	})
})
