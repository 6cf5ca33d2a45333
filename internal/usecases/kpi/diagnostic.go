package kpi

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/vfg2006/cirod-kpi-engine/internal/domain"
)

const unknownClinic = "sem clínica"

// Diagnose confronta dentistas e requisições para localizar dados que não entram nos KPIs
func (s *Service) Diagnose(ctx context.Context) (*domain.KPIDiagnostic, error) {
	dentists, err := s.dentistRepo.List(ctx)
	if err != nil {
		return nil, storeError(err, ErrFetchDentists, "")
	}

	requests, err := s.requestRepo.List(ctx)
	if err != nil {
		return nil, storeError(err, ErrFetchRequests, "")
	}

	diagnostic := &domain.KPIDiagnostic{
		TotalDentists:      len(dentists),
		TotalRequests:      len(requests),
		OrphanLicenseCodes: []string{},
		RequestsByMonth:    make(map[string]int),
		RequestsByClinic:   []domain.ClinicCount{},
	}

	knownCodes := make(map[string]bool, len(dentists))
	for _, dentist := range dentists {
		if dentist.KPIs.HasData() {
			diagnostic.DentistsWithKPIs++
		}
		code := dentist.LicenseCode()
		if code == "" {
			diagnostic.DentistsWithoutCRO++
			continue
		}
		knownCodes[code] = true
	}

	orphans := make(map[string]bool)
	clinics := make(map[string]int)
	for _, request := range requests {
		if year, month, ok := request.Period(); ok {
			diagnostic.RequestsByMonth[year+"-"+month]++
		} else {
			diagnostic.RequestsWithoutDate++
		}

		clinicID := strings.TrimSpace(request.Clinic.ID)
		if clinicID == "" {
			clinicID = unknownClinic
		}
		clinics[clinicID]++

		if code := request.Dentist.LicenseCode(); code != "" && !knownCodes[code] {
			orphans[code] = true
		}
	}

	for code := range orphans {
		diagnostic.OrphanLicenseCodes = append(diagnostic.OrphanLicenseCodes, code)
	}
	sort.Strings(diagnostic.OrphanLicenseCodes)

	units := s.accumulator.Units()
	for clinicID, count := range clinics {
		entry := domain.ClinicCount{ClinicID: clinicID, Requests: count}
		if id, err := strconv.Atoi(clinicID); err == nil {
			if unit, ok := units.ByID(id); ok {
				entry.UnitName = unit.Name
			}
		}
		diagnostic.RequestsByClinic = append(diagnostic.RequestsByClinic, entry)
	}
	sort.Slice(diagnostic.RequestsByClinic, func(i, j int) bool {
		a, b := diagnostic.RequestsByClinic[i], diagnostic.RequestsByClinic[j]
		if a.Requests != b.Requests {
			return a.Requests > b.Requests
		}
		return a.ClinicID < b.ClinicID
	})

	return diagnostic, nil
}
