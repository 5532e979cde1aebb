package services

import (
	"DentistAPI/models"
	"DentistAPI/repositories"
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// store is an in-memory stand-in for the Postgres schema. Each fake
// repository below is a view over it, so cross-table effects stay visible.
type store struct {
	credentials   map[uuid.UUID]*models.Credential
	complaints    map[uuid.UUID]*models.Complaint
	diagnoses     map[uuid.UUID]*models.Diagnosis
	followUps     map[uuid.UUID]*models.FollowUp
	bills         map[uuid.UUID]*models.Bill
	prescriptions map[uuid.UUID]*models.PatientPrescription
	treatments    map[uuid.UUID]*models.Treatment
	medications   map[uuid.UUID]*models.Prescription
	allergies     []models.Allergy
	conditions    []models.MedicalCondition
}

func newStore() *store {
	return &store{
		credentials:   map[uuid.UUID]*models.Credential{},
		complaints:    map[uuid.UUID]*models.Complaint{},
		diagnoses:     map[uuid.UUID]*models.Diagnosis{},
		followUps:     map[uuid.UUID]*models.FollowUp{},
		bills:         map[uuid.UUID]*models.Bill{},
		prescriptions: map[uuid.UUID]*models.PatientPrescription{},
		treatments:    map[uuid.UUID]*models.Treatment{},
		medications:   map[uuid.UUID]*models.Prescription{},
	}
}

func (s *store) findCredential(phoneNumber int64, name string) *models.Credential {
	for _, c := range s.credentials {
		if c.PhoneNumber == phoneNumber && c.Name == name {
			return c
		}
	}
	return nil
}

func (s *store) addCredential(c *models.Credential) error {
	if s.findCredential(c.PhoneNumber, c.Name) != nil {
		return repositories.ErrDuplicate
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.credentials[c.ID] = c
	return nil
}

func (s *store) billFor(complaintID uuid.UUID) *models.Bill {
	for _, b := range s.bills {
		if b.ComplaintID == complaintID {
			return b
		}
	}
	return nil
}

func (s *store) adjustBill(complaintID uuid.UUID, delta int) {
	bill := s.billFor(complaintID)
	if bill == nil {
		bill = &models.Bill{ID: uuid.New(), ComplaintID: complaintID}
		s.bills[bill.ID] = bill
	}
	bill.Total += delta
	if bill.Total < 0 {
		bill.Total = 0
	}
	if delta > 0 {
		if c, ok := s.complaints[complaintID]; ok {
			if cred, ok := s.credentials[c.CredentialID]; ok {
				cred.Active = true
			}
		}
	}
}

func (s *store) withPatient(c *models.Complaint) *models.Complaint {
	out := *c
	if cred, ok := s.credentials[c.CredentialID]; ok {
		out.Credential = *cred
	}
	return &out
}

// Credentials

type fakeCredentialRepository struct{ *store }

func (r fakeCredentialRepository) FindByIdentity(_ context.Context, phoneNumber int64, name string) (*models.Credential, error) {
	if c := r.findCredential(phoneNumber, name); c != nil {
		out := *c
		return &out, nil
	}
	return nil, nil
}

func (r fakeCredentialRepository) Create(_ context.Context, c *models.Credential) error {
	return r.addCredential(c)
}

func (r fakeCredentialRepository) SetInitialPassword(_ context.Context, id uuid.UUID, hash string) (bool, error) {
	c, ok := r.credentials[id]
	if !ok || c.Password != "" {
		return false, nil
	}
	c.Password = hash
	return true, nil
}

func (r fakeCredentialRepository) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	c, ok := r.credentials[id]
	if !ok {
		return repositories.ErrNotFound
	}
	c.Password = hash
	return nil
}

func (r fakeCredentialRepository) UpdatePhoneNumber(_ context.Context, id uuid.UUID, phoneNumber int64) error {
	c, ok := r.credentials[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if r.findCredential(phoneNumber, c.Name) != nil {
		return repositories.ErrDuplicate
	}
	c.PhoneNumber = phoneNumber
	return nil
}

// Patients

type fakePatientRepository struct{ *store }

func (r fakePatientRepository) CreateWithDetails(_ context.Context, c *models.Credential, d *models.PatientDetails) error {
	if err := r.addCredential(c); err != nil {
		return err
	}
	d.CredentialID = c.ID
	c.Details = d
	return nil
}

func (r fakePatientRepository) FindByIdentity(_ context.Context, phoneNumber int64, name string) (*models.Credential, error) {
	c := r.findCredential(phoneNumber, name)
	if c == nil || c.Role != models.RolePatient {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (r fakePatientRepository) ListByPhoneNumber(ctx context.Context, phoneNumber int64) ([]models.Credential, error) {
	all, _ := r.List(ctx, repositories.PatientFilter{})
	var out []models.Credential
	for _, c := range all {
		if c.PhoneNumber == phoneNumber {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r fakePatientRepository) List(_ context.Context, filter repositories.PatientFilter) ([]models.Credential, error) {
	var out []models.Credential
	for _, c := range r.credentials {
		if c.Role != models.RolePatient {
			continue
		}
		if filter.NamePrefix != "" && !strings.HasPrefix(c.Name, filter.NamePrefix) {
			continue
		}
		if filter.ActiveOnly && !c.Active {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r fakePatientRepository) UpdateMedicalDetails(_ context.Context, id uuid.UUID, md repositories.MedicalDetails) error {
	c, ok := r.credentials[id]
	if !ok || c.Details == nil {
		return repositories.ErrNotFound
	}
	c.Details.Allergies = md.Allergies
	c.Details.Illnesses = md.Illnesses
	c.Details.Smoking = md.Smoking
	c.Details.Drinking = md.Drinking
	c.Details.Tobacco = md.Tobacco
	return nil
}

// Complaints

type fakeComplaintRepository struct{ *store }

func (r fakeComplaintRepository) Create(_ context.Context, c *models.Complaint) error {
	cred, ok := r.credentials[c.CredentialID]
	if !ok {
		return repositories.ErrMissingReference
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	stored := *c
	r.complaints[c.ID] = &stored
	cred.Active = true
	return nil
}

func (r fakeComplaintRepository) FindByID(_ context.Context, id uuid.UUID) (*models.Complaint, error) {
	c, ok := r.complaints[id]
	if !ok {
		return nil, nil
	}
	return r.withPatient(c), nil
}

func (r fakeComplaintRepository) ListRegisteredBetween(_ context.Context, from, to time.Time) ([]models.Complaint, error) {
	var out []models.Complaint
	for _, c := range r.complaints {
		if !c.RegisteredAt.Before(from) && c.RegisteredAt.Before(to) {
			out = append(out, *r.withPatient(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegisteredAt.Before(out[j].RegisteredAt) })
	return out, nil
}

func (r fakeComplaintRepository) ListByCredential(_ context.Context, id uuid.UUID) ([]models.Complaint, error) {
	var out []models.Complaint
	for _, c := range r.complaints {
		if c.CredentialID == id {
			out = append(out, *r.withPatient(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegisteredAt.After(out[j].RegisteredAt) })
	return out, nil
}

// Diagnoses

type fakeDiagnosisRepository struct{ *store }

func (r fakeDiagnosisRepository) withTreatment(d *models.Diagnosis) models.Diagnosis {
	out := *d
	if t, ok := r.treatments[d.TreatmentID]; ok {
		out.Treatment = *t
	}
	return out
}

func (r fakeDiagnosisRepository) ListByComplaint(_ context.Context, complaintID uuid.UUID) ([]models.Diagnosis, error) {
	var out []models.Diagnosis
	for _, d := range r.diagnoses {
		if d.ComplaintID == complaintID {
			out = append(out, r.withTreatment(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ToothNumber < out[j].ToothNumber })
	return out, nil
}

func (r fakeDiagnosisRepository) FindByID(_ context.Context, id uuid.UUID) (*models.Diagnosis, error) {
	d, ok := r.diagnoses[id]
	if !ok {
		return nil, nil
	}
	out := r.withTreatment(d)
	return &out, nil
}

func (r fakeDiagnosisRepository) duplicate(d *models.Diagnosis, treatmentID uuid.UUID) bool {
	for _, existing := range r.diagnoses {
		if existing.ID != d.ID && existing.ComplaintID == d.ComplaintID &&
			existing.ToothNumber == d.ToothNumber && existing.TreatmentID == treatmentID {
			return true
		}
	}
	return false
}

func (r fakeDiagnosisRepository) Create(_ context.Context, d *models.Diagnosis, price int) error {
	if r.duplicate(d, d.TreatmentID) {
		return repositories.ErrDuplicate
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	stored := *d
	r.diagnoses[d.ID] = &stored
	r.adjustBill(d.ComplaintID, price)
	return nil
}

func (r fakeDiagnosisRepository) UpdateTreatment(_ context.Context, d *models.Diagnosis, treatmentID uuid.UUID, delta int) error {
	stored, ok := r.diagnoses[d.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	if r.duplicate(d, treatmentID) {
		return repositories.ErrDuplicate
	}
	stored.TreatmentID = treatmentID
	d.TreatmentID = treatmentID
	r.adjustBill(d.ComplaintID, delta)
	return nil
}

func (r fakeDiagnosisRepository) Delete(_ context.Context, d *models.Diagnosis, price int) error {
	if _, ok := r.diagnoses[d.ID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.diagnoses, d.ID)
	r.adjustBill(d.ComplaintID, -price)
	return nil
}

// Follow-ups

type fakeFollowUpRepository struct{ *store }

func (r fakeFollowUpRepository) Create(ctx context.Context, f *models.FollowUp) error {
	if exists, _ := r.ExistsNumber(ctx, f.ComplaintID, f.Number); exists {
		return repositories.ErrDuplicate
	}
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	stored := *f
	r.followUps[f.ID] = &stored
	return nil
}

func (r fakeFollowUpRepository) FindByID(_ context.Context, id uuid.UUID) (*models.FollowUp, error) {
	f, ok := r.followUps[id]
	if !ok {
		return nil, nil
	}
	out := *f
	return &out, nil
}

func (r fakeFollowUpRepository) ExistsNumber(_ context.Context, complaintID uuid.UUID, number int) (bool, error) {
	for _, f := range r.followUps {
		if f.ComplaintID == complaintID && f.Number == number {
			return true, nil
		}
	}
	return false, nil
}

func (r fakeFollowUpRepository) Update(_ context.Context, id uuid.UUID, u repositories.FollowUpUpdate) error {
	f, ok := r.followUps[id]
	if !ok {
		return repositories.ErrNotFound
	}
	f.Description = u.Description
	f.Date = u.Date
	f.Time = u.Time
	if u.Completed != nil {
		f.Completed = *u.Completed
	}
	return nil
}

func (r fakeFollowUpRepository) ListByComplaint(_ context.Context, complaintID uuid.UUID) ([]models.FollowUp, error) {
	var out []models.FollowUp
	for _, f := range r.followUps {
		if f.ComplaintID == complaintID {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r fakeFollowUpRepository) ListByDate(_ context.Context, date time.Time) ([]models.FollowUp, error) {
	var out []models.FollowUp
	for _, f := range r.followUps {
		if f.Date.Format(models.DateLayout) != date.Format(models.DateLayout) {
			continue
		}
		item := *f
		if c, ok := r.complaints[f.ComplaintID]; ok {
			item.Complaint = *r.withPatient(c)
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}

// Bills

type fakeBillingRepository struct{ *store }

func (r fakeBillingRepository) FindByComplaint(_ context.Context, complaintID uuid.UUID) (*models.Bill, error) {
	bill := r.billFor(complaintID)
	if bill == nil {
		return nil, nil
	}
	out := *bill
	out.Discounts = append([]models.Discount(nil), bill.Discounts...)
	return &out, nil
}

func (r fakeBillingRepository) Ensure(ctx context.Context, complaintID uuid.UUID) (*models.Bill, error) {
	r.adjustBill(complaintID, 0)
	return r.FindByComplaint(ctx, complaintID)
}

func (r fakeBillingRepository) AddDiscount(_ context.Context, d *models.Discount) error {
	bill, ok := r.bills[d.BillID]
	if !ok {
		return repositories.ErrMissingReference
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	bill.Discounts = append(bill.Discounts, *d)
	return nil
}

func (r fakeBillingRepository) RecordPayment(_ context.Context, billID uuid.UUID, paid int, credentialID uuid.UUID, closeCourse bool) error {
	bill, ok := r.bills[billID]
	if !ok {
		return repositories.ErrNotFound
	}
	bill.Paid = paid
	if closeCourse {
		if c, ok := r.credentials[credentialID]; ok {
			c.Active = false
		}
	}
	return nil
}

// Patient prescriptions

type fakePrescriptionRepository struct{ *store }

func (r fakePrescriptionRepository) withMedication(p *models.PatientPrescription) models.PatientPrescription {
	out := *p
	if m, ok := r.medications[p.PrescriptionID]; ok {
		out.Prescription = *m
	}
	return out
}

func (r fakePrescriptionRepository) Create(_ context.Context, p *models.PatientPrescription) error {
	for _, existing := range r.prescriptions {
		if existing.ComplaintID == p.ComplaintID && existing.Sitting == p.Sitting && existing.PrescriptionID == p.PrescriptionID {
			return repositories.ErrDuplicate
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	stored := *p
	r.prescriptions[p.ID] = &stored
	return nil
}

func (r fakePrescriptionRepository) FindByID(_ context.Context, id uuid.UUID) (*models.PatientPrescription, error) {
	p, ok := r.prescriptions[id]
	if !ok {
		return nil, nil
	}
	out := r.withMedication(p)
	return &out, nil
}

func (r fakePrescriptionRepository) Update(_ context.Context, id uuid.UUID, u repositories.PrescriptionUpdate) error {
	p, ok := r.prescriptions[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.Dosage = u.Dosage
	p.DurationDays = u.DurationDays
	p.Instructions = u.Instructions
	return nil
}

func (r fakePrescriptionRepository) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.prescriptions[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.prescriptions, id)
	return nil
}

func (r fakePrescriptionRepository) ListByComplaint(_ context.Context, complaintID uuid.UUID) ([]models.PatientPrescription, error) {
	var out []models.PatientPrescription
	for _, p := range r.prescriptions {
		if p.ComplaintID == complaintID {
			out = append(out, r.withMedication(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sitting < out[j].Sitting })
	return out, nil
}

func (r fakePrescriptionRepository) ListBySitting(ctx context.Context, complaintID uuid.UUID, sitting int) ([]models.PatientPrescription, error) {
	all, _ := r.ListByComplaint(ctx, complaintID)
	var out []models.PatientPrescription
	for _, p := range all {
		if p.Sitting == sitting {
			out = append(out, p)
		}
	}
	return out, nil
}

// Catalog

type fakeCatalogRepository struct{ *store }

func (r fakeCatalogRepository) ListTreatments(context.Context) ([]models.Treatment, error) {
	var out []models.Treatment
	for _, t := range r.treatments {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r fakeCatalogRepository) FindTreatment(_ context.Context, id uuid.UUID) (*models.Treatment, error) {
	t, ok := r.treatments[id]
	if !ok {
		return nil, nil
	}
	out := *t
	return &out, nil
}

func (r fakeCatalogRepository) CreateTreatment(_ context.Context, t *models.Treatment) error {
	for _, existing := range r.treatments {
		if existing.Name == t.Name {
			return repositories.ErrDuplicate
		}
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	stored := *t
	r.treatments[t.ID] = &stored
	return nil
}

func (r fakeCatalogRepository) TreatmentInUse(_ context.Context, id uuid.UUID) (bool, error) {
	for _, d := range r.diagnoses {
		if d.TreatmentID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r fakeCatalogRepository) DeleteTreatment(_ context.Context, id uuid.UUID) error {
	if _, ok := r.treatments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.treatments, id)
	return nil
}

func (r fakeCatalogRepository) ListPrescriptions(context.Context) ([]models.Prescription, error) {
	var out []models.Prescription
	for _, m := range r.medications {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r fakeCatalogRepository) FindPrescription(_ context.Context, id uuid.UUID) (*models.Prescription, error) {
	m, ok := r.medications[id]
	if !ok {
		return nil, nil
	}
	out := *m
	return &out, nil
}

func (r fakeCatalogRepository) CreatePrescription(_ context.Context, m *models.Prescription) error {
	for _, existing := range r.medications {
		if existing.Name == m.Name {
			return repositories.ErrDuplicate
		}
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	stored := *m
	r.medications[m.ID] = &stored
	return nil
}

func (r fakeCatalogRepository) PrescriptionInUse(_ context.Context, id uuid.UUID) (bool, error) {
	for _, p := range r.prescriptions {
		if p.PrescriptionID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r fakeCatalogRepository) DeletePrescription(_ context.Context, id uuid.UUID) error {
	if _, ok := r.medications[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.medications, id)
	return nil
}

func (r fakeCatalogRepository) ListAllergies(context.Context) ([]models.Allergy, error) {
	return append([]models.Allergy(nil), r.allergies...), nil
}

func (r fakeCatalogRepository) CreateAllergy(_ context.Context, a *models.Allergy) error {
	for _, existing := range r.allergies {
		if existing.Name == a.Name {
			return repositories.ErrDuplicate
		}
	}
	a.ID = uint(len(r.allergies) + 1)
	r.allergies = append(r.allergies, *a)
	return nil
}

func (r fakeCatalogRepository) ListMedicalConditions(context.Context) ([]models.MedicalCondition, error) {
	return append([]models.MedicalCondition(nil), r.conditions...), nil
}

func (r fakeCatalogRepository) CreateMedicalCondition(_ context.Context, c *models.MedicalCondition) error {
	for _, existing := range r.conditions {
		if existing.Name == c.Name {
			return repositories.ErrDuplicate
		}
	}
	c.ID = uint(len(r.conditions) + 1)
	r.conditions = append(r.conditions, *c)
	return nil
}
