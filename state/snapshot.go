package state

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/samber/lo"
	"github.com/tsinghua-fib-lab/signal-monitor/entity"
	"github.com/ucarion/jcs"
	"golang.org/x/exp/slices"
)

// Snapshot 帧：某一帧时刻全部路口与车辆状态的不可变拷贝
// 功能：由帧调度器产生，交给渲染器只读使用
// 说明：所有字段不可导出，访问方法返回拷贝，保证渲染器无法修改帧内容
type Snapshot struct {
	session       string
	tick          int64
	at            time.Time
	intersections []entity.IntersectionState
	vehicles      []entity.VehicleState

	intersectionIndex map[string]int
	vehicleIndex      map[int]int
}

func newSnapshot(
	session string,
	tick int64,
	at time.Time,
	intersections []entity.IntersectionState,
	vehicles []entity.VehicleState,
) *Snapshot {
	return &Snapshot{
		session:       session,
		tick:          tick,
		at:            at,
		intersections: intersections,
		vehicles:      vehicles,
		intersectionIndex: lo.SliceToMap(lo.Range(len(intersections)), func(i int) (string, int) {
			return intersections[i].ID, i
		}),
		vehicleIndex: lo.SliceToMap(lo.Range(len(vehicles)), func(i int) (int, int) {
			return vehicles[i].ID, i
		}),
	}
}

func (s *Snapshot) Session() string { return s.session }
func (s *Snapshot) Tick() int64     { return s.tick }
func (s *Snapshot) At() time.Time   { return s.at }

// Intersections 按ID排序的全部路口状态（拷贝）
func (s *Snapshot) Intersections() []entity.IntersectionState {
	return slices.Clone(s.intersections)
}

// Vehicles 按ID排序的全部车辆状态（拷贝）
func (s *Snapshot) Vehicles() []entity.VehicleState {
	return slices.Clone(s.vehicles)
}

// Intersection 根据ID查找路口状态
func (s *Snapshot) Intersection(id string) (entity.IntersectionState, bool) {
	i, ok := s.intersectionIndex[id]
	if !ok {
		return entity.IntersectionState{}, false
	}
	return s.intersections[i], true
}

// Vehicle 根据ID查找车辆状态
func (s *Snapshot) Vehicle(id int) (entity.VehicleState, bool) {
	i, ok := s.vehicleIndex[id]
	if !ok {
		return entity.VehicleState{}, false
	}
	return s.vehicles[i], true
}

// snapshotDoc 帧的JSON表示，不含会话、帧序号与时间，只描述路口与车辆状态
type snapshotDoc struct {
	Intersections []entity.IntersectionState `json:"intersections"`
	Vehicles      []entity.VehicleState      `json:"vehicles"`
}

// Fingerprint 帧内容摘要
// 功能：对路口与车辆状态做规范化JSON（RFC 8785）后计算sha256
// 返回：十六进制摘要；内容相同的两帧摘要相同，与帧序号和时间无关
func (s *Snapshot) Fingerprint() (string, error) {
	raw, err := json.Marshal(snapshotDoc{
		Intersections: s.intersections,
		Vehicles:      s.vehicles,
	})
	if err != nil {
		return "", err
	}
	var normalized interface{}
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return "", err
	}
	canonical, err := jcs.Format(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:]), nil
}

// MarshalJSON 帧的JSON编码，供远程渲染器使用
func (s *Snapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Session string `json:"session"`
		Tick    int64  `json:"tick"`
		At      string `json:"at"`
		snapshotDoc
	}{
		Session: s.session,
		Tick:    s.tick,
		At:      s.at.Format(time.RFC3339Nano),
		snapshotDoc: snapshotDoc{
			Intersections: s.intersections,
			Vehicles:      s.vehicles,
		},
	})
}
