package entity

// Manager依赖倒置

// entity/junction/manager.go的依赖倒置
type IJunctionManager interface {
	// 输入路口ID，查找路口，如果不存在则panic
	Get(id string) IIntersection
	// 输入路口ID，查找路口，如果不存在则返回error
	GetOrError(id string) (IIntersection, error)

	SetPhase(id, label string)   // 设置相位，路口不存在时创建
	SetCount(id string, n int)   // 设置车辆数（全量覆盖），路口不存在时创建
	Len() int                    // 路口数量
	States() []IntersectionState // 按ID排序的全部路口状态
}

// entity/vehicle/manager.go的依赖倒置
type IVehicleManager interface {
	// 输入车辆ID，查找车辆，如果不存在则panic
	Get(id int) IVehicle
	// 输入车辆ID，查找车辆，如果不存在则返回error
	GetOrError(id int) (IVehicle, error)

	// 车辆接近路口：创建或全量覆盖
	Approach(id int, intersection, movement string, speed float64, travelTime int)
	// 车辆通过路口：只覆盖路口与动作，车辆不存在时返回false
	Cross(id int, intersection, movement string) bool
	Len() int               // 车辆数量
	States() []VehicleState // 按ID排序的全部车辆状态
}
